// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import "context"

// PileRepository defines the data access contract for compost piles.
//
// # Ownership Scoping
//
// FindOwned takes both the pile ID and the owner's username so that the
// ownership check happens inside the query itself. Callers never receive a
// pile they do not own, and cannot distinguish "absent" from "not mine".
type PileRepository interface {
	// Create persists a new pile and fills in its generated PileID and
	// CreatedAt.
	Create(ctx context.Context, pile *CompostPile) error

	// ListByOwner returns every pile of the given user, newest first.
	// No piles is a nil/empty slice, not an error.
	ListByOwner(ctx context.Context, username string) ([]*CompostPile, error)

	// FindOwned returns the pile only when it exists AND belongs to the
	// given user; otherwise [apperr.NotFound].
	FindOwned(ctx context.Context, pileID int64, username string) (*CompostPile, error)
}

// HealthRecordRepository defines the data access contract for the health
// timeline of a pile. Ownership of the pile is the service's concern; these
// methods trust the pile ID they are given.
type HealthRecordRepository interface {
	// Create persists a record and fills in its generated RecordID and
	// Timestamp.
	Create(ctx context.Context, record *HealthRecord) error

	// ListByPile returns the records of one pile, newest first.
	ListByPile(ctx context.Context, pileID int64) ([]*HealthRecord, error)
}
