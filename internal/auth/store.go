// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"context"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresUserRepository]);
// tests use an in-memory fake.
type UserRepository interface {
	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if the username is available.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByUsernameOrEmail returns the first account matching either the
	// username or the email (case-sensitive exact match on both).
	//
	// Registration uses it as a pre-check; the unique constraints in the
	// database remain the source of truth under concurrency.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns [apperr.Duplicate] if a unique constraint (username/email)
	// rejects the row.
	Create(ctx context.Context, user *User) error
}
