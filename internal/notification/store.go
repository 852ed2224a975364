// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package notification

import (
	"context"
	"time"
)

// NotificationRepository defines the data access contract for alerts.
//
// Owner-scoped methods take the owner's username and resolve it through the
// pile chain inside the query, mirroring the pile store's scoping rules.
type NotificationRepository interface {
	// Create persists a new alert and fills in its generated
	// NotificationID and CreatedAt.
	Create(ctx context.Context, notification *Notification) error

	// ListByOwner returns every alert attached to the owner's piles,
	// newest first.
	ListByOwner(ctx context.Context, username string) ([]*Notification, error)

	// MarkRead stamps the read receipt on an alert owned (via its pile) by
	// the given user and returns the updated alert. Absent or foreign
	// alerts are [apperr.NotFound]. Marking an already-read alert is
	// idempotent; the original receipt is kept.
	MarkRead(ctx context.Context, notificationID int64, username string, readAt time.Time) (*Notification, error)

	// CountUnreadByOwner returns how many of the owner's alerts have no
	// read receipt.
	CountUnreadByOwner(ctx context.Context, username string) (int64, error)
}

// UnreadCountCache is the volatile cache for the per-user unread counter.
//
// A cache failure must degrade to the persistent count, never to a request
// error, so implementations report misses and errors the same way.
type UnreadCountCache interface {
	// Get returns the cached count and whether it was present.
	Get(ctx context.Context, username string) (int64, bool)

	// Set stores the count for the configured TTL.
	Set(ctx context.Context, username string, count int64)

	// Invalidate drops the cached count after a write that changes it.
	Invalidate(ctx context.Context, username string)
}
