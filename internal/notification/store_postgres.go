// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/dberr"
)

// PostgresNotificationRepository implements the NotificationRepository
// interface using pgx.
type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new PostgreSQL implementation of the
// NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{pool: pool}
}

// Create inserts an alert row and reads back the generated key and timestamp.
func (repository *PostgresNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	const query = `
		INSERT INTO notification (pile_id, title, description, type, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING notification_id, created_at`

	if notification.Priority == 0 {
		notification.Priority = DefaultPriority
	}

	err := repository.pool.QueryRow(ctx, query,
		notification.PileID,
		notification.Title,
		notification.Description,
		notification.Type,
		notification.Priority,
	).Scan(&notification.NotificationID, &notification.CreatedAt)

	if err != nil {
		if dberr.IsIntegrityViolation(err) {
			return apperr.NotFound("Compost pile")
		}
		return fmt.Errorf("postgres_notification_repo_create_failed: %w", err)
	}

	return nil
}

// ListByOwner returns every alert attached to the owner's piles, most
// urgent first within the same creation instant.
func (repository *PostgresNotificationRepository) ListByOwner(ctx context.Context, username string) ([]*Notification, error) {
	const query = `
		SELECT n.notification_id, n.pile_id, n.title, n.description, n.type,
		       n.priority, n.created_at, n.read_on
		FROM notification n
		JOIN compost_pile p ON p.pile_id = n.pile_id
		WHERE p.username = $1
		ORDER BY n.created_at DESC, n.priority ASC, n.notification_id DESC`

	rows, err := repository.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("postgres_notification_repo_list_failed: %w", err)
	}
	defer rows.Close()

	notifications, err := pgx.CollectRows(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("postgres_notification_repo_collect_failed: %w", err)
	}

	return notifications, nil
}

// MarkRead stamps the read receipt through the ownership join.
//
// The WHERE clause resolves ownership and skips rows that already carry a
// receipt, so a repeated acknowledgement keeps the original timestamp. The
// follow-up select distinguishes "already read" from "not yours/absent".
func (repository *PostgresNotificationRepository) MarkRead(ctx context.Context, notificationID int64, username string, readAt time.Time) (*Notification, error) {
	const update = `
		UPDATE notification n
		SET read_on = $3
		FROM compost_pile p
		WHERE n.notification_id = $1
		  AND p.pile_id = n.pile_id
		  AND p.username = $2
		  AND n.read_on IS NULL`

	if _, err := repository.pool.Exec(ctx, update, notificationID, username, readAt); err != nil {
		return nil, fmt.Errorf("postgres_notification_repo_mark_read_failed: %w", err)
	}

	const fetch = `
		SELECT n.notification_id, n.pile_id, n.title, n.description, n.type,
		       n.priority, n.created_at, n.read_on
		FROM notification n
		JOIN compost_pile p ON p.pile_id = n.pile_id
		WHERE n.notification_id = $1 AND p.username = $2`

	rows, err := repository.pool.Query(ctx, fetch, notificationID, username)
	if err != nil {
		return nil, fmt.Errorf("postgres_notification_repo_fetch_failed: %w", err)
	}
	defer rows.Close()

	notification, err := pgx.CollectOneRow(rows, scanNotification)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Notification")
		}
		return nil, fmt.Errorf("postgres_notification_repo_fetch_failed: %w", err)
	}

	return notification, nil
}

// CountUnreadByOwner counts the owner's alerts without a read receipt.
func (repository *PostgresNotificationRepository) CountUnreadByOwner(ctx context.Context, username string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM notification n
		JOIN compost_pile p ON p.pile_id = n.pile_id
		WHERE p.username = $1 AND n.read_on IS NULL`

	var count int64
	if err := repository.pool.QueryRow(ctx, query, username).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_notification_repo_count_failed: %w", err)
	}

	return count, nil
}

func scanNotification(row pgx.CollectableRow) (*Notification, error) {
	notification := &Notification{}
	err := row.Scan(
		&notification.NotificationID,
		&notification.PileID,
		&notification.Title,
		&notification.Description,
		&notification.Type,
		&notification.Priority,
		&notification.CreatedAt,
		&notification.ReadOn,
	)
	return notification, err
}
