// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

/*
Package notification implements per-pile alerts: creation (from the pile
health path), owner-scoped listing, read receipts, and a cached unread
counter.

# Ownership

A notification belongs to a pile, and a pile belongs to a user. All reads
and writes resolve ownership through that chain; notifications attached to
someone else's pile behave exactly like notifications that do not exist.
*/
package notification

import "time"

// Notification is one alert attached to a compost pile.
type Notification struct {
	NotificationID int64      `json:"notification_id"`
	PileID         int64      `json:"pile_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Type           *string    `json:"type"`
	Priority       int16      `json:"priority"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadOn         *time.Time `json:"read_on"`
}

// Unread reports whether the notification has not been acknowledged yet.
func (n *Notification) Unread() bool {
	return n.ReadOn == nil
}

// DefaultPriority matches the storage default for alerts that do not set
// an explicit urgency. Lower is more urgent.
const DefaultPriority int16 = 5
