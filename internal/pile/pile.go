// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

/*
Package pile implements the compost pile domain: pile registration, per-user
listing, and the health record timeline attached to each pile.

# Ownership

Every pile belongs to exactly one account, keyed by username. All read and
write paths are scoped to the authenticated identity; a pile owned by someone
else behaves exactly like a pile that does not exist.
*/
package pile

import "time"

// CompostPile represents a single compost pile registered by a user.
type CompostPile struct {
	PileID           int64     `json:"pile_id"`
	Username         string    `json:"username"`
	Name             string    `json:"name"`
	VolumeAtCreation *float64  `json:"volume_at_creation"`
	Location         *string   `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
}
