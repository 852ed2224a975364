// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the account table.
//
// # Concurrency
//
// Two registrations racing past the application-level uniqueness pre-check
// are serialized here by the primary key and the unique email index; the
// loser surfaces as the same generic [apperr.Duplicate] the pre-check
// would have produced.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO account (username, email, password_hash, country, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Country,
		user.Location,
		user.CreatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Duplicate("Username or email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByUsername retrieves a user record by their unique username.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT username, email, password_hash, country, location, created_at
		FROM account
		WHERE username = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Country,
		&user.Location,
		&user.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

// FindByUsernameOrEmail retrieves the first account matching either value.
func (repository *PostgresUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	const query = `
		SELECT username, email, password_hash, country, location, created_at
		FROM account
		WHERE username = $1 OR email = $2
		LIMIT 1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, username, email).Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Country,
		&user.Location,
		&user.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_or_email_failed: %w", err)
	}

	return user, nil
}
