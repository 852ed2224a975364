// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the number of UTF-8 bytes of a password that
// participate in the hash. Bcrypt ignores input beyond 72 bytes, so the
// plaintext is truncated explicitly and identically at hash time and at
// verify time; otherwise verification would be inconsistent across the
// two paths.
const MaxPasswordBytes = 72

// PasswordHasher turns plaintext passwords into storable bcrypt secrets.
//
// The work factor is injected once at startup from configuration rather
// than read from ambient state, which keeps tests deterministic (they run
// at [bcrypt.MinCost]) and production tunable without code changes.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs a hasher with the given bcrypt cost.
// Costs outside the valid bcrypt range fall back to [bcrypt.DefaultCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted, one-way hash of the plaintext password.
// Two calls with the same input yield different secrets; both verify.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(truncatePassword(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plaintext password with its stored hash in constant
// time. Malformed stored hashes simply report false, never an error, so a
// corrupted row cannot turn the login path into a 500.
func (hasher *PasswordHasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), truncatePassword(plainTextPassword))
	return err == nil
}

// truncatePassword cuts the UTF-8 encoding at the bcrypt input boundary.
func truncatePassword(plain string) []byte {
	raw := []byte(plain)
	if len(raw) > MaxPasswordBytes {
		raw = raw[:MaxPasswordBytes]
	}
	return raw
}
