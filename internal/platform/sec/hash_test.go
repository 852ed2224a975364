// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rowanfield/compostly/internal/platform/sec"
)

func testHasher() *sec.PasswordHasher {
	// MinCost keeps the suite fast; the work factor does not change behavior.
	return sec.NewPasswordHasher(bcrypt.MinCost)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, hasher.Verify("password123", hash))
	assert.False(t, hasher.Verify("password124", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestPasswordHasher_NonDeterministicSalting(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("password123")
	require.NoError(t, err)
	second, err := hasher.Hash("password123")
	require.NoError(t, err)

	// Fresh salt per call: the stored secrets differ but both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("password123", first))
	assert.True(t, hasher.Verify("password123", second))
}

func TestPasswordHasher_TruncatesAt72Bytes(t *testing.T) {
	hasher := testHasher()

	base := strings.Repeat("a", sec.MaxPasswordBytes)

	hash, err := hasher.Hash(base + "tail-beyond-the-boundary")
	require.NoError(t, err)

	// Bytes past the boundary do not participate in the hash, on either path.
	assert.True(t, hasher.Verify(base, hash))
	assert.True(t, hasher.Verify(base+"a-different-tail", hash))

	// A difference within the first 72 bytes still fails.
	assert.False(t, hasher.Verify(strings.Repeat("b", sec.MaxPasswordBytes), hash))
}

func TestPasswordHasher_MalformedHashReportsFalse(t *testing.T) {
	hasher := testHasher()

	assert.False(t, hasher.Verify("password123", ""))
	assert.False(t, hasher.Verify("password123", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("password123", "$2a$garbage"))
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := sec.NewPasswordHasher(99)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("password123", hash))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
