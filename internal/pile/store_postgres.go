// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/dberr"
)

// PostgresPileRepository implements the PileRepository interface using pgx.
type PostgresPileRepository struct {
	pool *pgxpool.Pool
}

// NewPileRepository creates a new PostgreSQL implementation of the PileRepository.
func NewPileRepository(pool *pgxpool.Pool) *PostgresPileRepository {
	return &PostgresPileRepository{pool: pool}
}

// Create inserts a pile row and reads back the generated key and timestamp.
func (repository *PostgresPileRepository) Create(ctx context.Context, pile *CompostPile) error {
	const query = `
		INSERT INTO compost_pile (username, name, volume_at_creation, location)
		VALUES ($1, $2, $3, $4)
		RETURNING pile_id, created_at`

	err := repository.pool.QueryRow(ctx, query,
		pile.Username,
		pile.Name,
		pile.VolumeAtCreation,
		pile.Location,
	).Scan(&pile.PileID, &pile.CreatedAt)

	if err != nil {
		if dberr.IsIntegrityViolation(err) {
			// The owner row vanished between identity resolution and the
			// insert. Report it like any other missing account.
			return apperr.NotFound("User")
		}
		return fmt.Errorf("postgres_pile_repo_create_failed: %w", err)
	}

	return nil
}

// ListByOwner returns every pile belonging to the user, newest first.
func (repository *PostgresPileRepository) ListByOwner(ctx context.Context, username string) ([]*CompostPile, error) {
	const query = `
		SELECT pile_id, username, name, volume_at_creation, location, created_at
		FROM compost_pile
		WHERE username = $1
		ORDER BY created_at DESC, pile_id DESC`

	rows, err := repository.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("postgres_pile_repo_list_failed: %w", err)
	}
	defer rows.Close()

	piles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*CompostPile, error) {
		pile := &CompostPile{}
		err := row.Scan(
			&pile.PileID,
			&pile.Username,
			&pile.Name,
			&pile.VolumeAtCreation,
			&pile.Location,
			&pile.CreatedAt,
		)
		return pile, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_pile_repo_collect_failed: %w", err)
	}

	return piles, nil
}

// FindOwned returns the pile only when the given user owns it.
//
// The ownership predicate lives in the WHERE clause, so a pile owned by a
// different user scans zero rows and surfaces as NOT_FOUND.
func (repository *PostgresPileRepository) FindOwned(ctx context.Context, pileID int64, username string) (*CompostPile, error) {
	const query = `
		SELECT pile_id, username, name, volume_at_creation, location, created_at
		FROM compost_pile
		WHERE pile_id = $1 AND username = $2`

	pile := &CompostPile{}
	err := repository.pool.QueryRow(ctx, query, pileID, username).Scan(
		&pile.PileID,
		&pile.Username,
		&pile.Name,
		&pile.VolumeAtCreation,
		&pile.Location,
		&pile.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Compost pile")
		}
		return nil, fmt.Errorf("postgres_pile_repo_find_owned_failed: %w", err)
	}

	return pile, nil
}

// PostgresHealthRecordRepository implements the HealthRecordRepository
// interface using pgx.
type PostgresHealthRecordRepository struct {
	pool *pgxpool.Pool
}

// NewHealthRecordRepository creates a new PostgreSQL implementation of the
// HealthRecordRepository.
func NewHealthRecordRepository(pool *pgxpool.Pool) *PostgresHealthRecordRepository {
	return &PostgresHealthRecordRepository{pool: pool}
}

// Create inserts a health record and reads back the generated key and
// timestamp.
func (repository *PostgresHealthRecordRepository) Create(ctx context.Context, record *HealthRecord) error {
	const query = `
		INSERT INTO health_record
			(pile_id, temperature, moisture, nitrogen_content, carbon_content, health_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING record_id, timestamp`

	err := repository.pool.QueryRow(ctx, query,
		record.PileID,
		record.Temperature,
		record.Moisture,
		record.NitrogenContent,
		record.CarbonContent,
		record.HealthScore,
		record.Status,
	).Scan(&record.RecordID, &record.Timestamp)

	if err != nil {
		if dberr.IsIntegrityViolation(err) {
			return apperr.NotFound("Compost pile")
		}
		return fmt.Errorf("postgres_health_repo_create_failed: %w", err)
	}

	return nil
}

// ListByPile returns the health timeline of one pile, newest first.
func (repository *PostgresHealthRecordRepository) ListByPile(ctx context.Context, pileID int64) ([]*HealthRecord, error) {
	const query = `
		SELECT record_id, pile_id, temperature, moisture, nitrogen_content,
		       carbon_content, health_score, status, timestamp
		FROM health_record
		WHERE pile_id = $1
		ORDER BY timestamp DESC, record_id DESC`

	rows, err := repository.pool.Query(ctx, query, pileID)
	if err != nil {
		return nil, fmt.Errorf("postgres_health_repo_list_failed: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*HealthRecord, error) {
		record := &HealthRecord{}
		err := row.Scan(
			&record.RecordID,
			&record.PileID,
			&record.Temperature,
			&record.Moisture,
			&record.NitrogenContent,
			&record.CarbonContent,
			&record.HealthScore,
			&record.Status,
			&record.Timestamp,
		)
		return record, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_health_repo_collect_failed: %w", err)
	}

	return records, nil
}
