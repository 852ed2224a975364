// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

// Package auth implements accounts, credentials, and bearer-token identity
// resolution for the Compostly platform.
//
// # Architecture
//
// The package owns the full vertical for its domain: the User entity, the
// repository contract, the PostgreSQL implementation, the application
// service (register / login / resolve), the HTTP handlers, and the
// middleware that guards every authenticated route group.
package auth

import (
	"time"
)

// User represents a registered Compostly account.
//
// # Rules
//   - Username is the primary key and owns every pile the account creates.
//   - Email is unique across accounts.
//   - PasswordHash is produced exclusively by the credential hasher; the
//     plaintext only ever exists transiently during registration and login.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Country      *string   `json:"country"`
	Location     *string   `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}
