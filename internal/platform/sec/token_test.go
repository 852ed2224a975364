// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/compostly/internal/platform/sec"
)

const testSecret = "test_signing_secret_long_enough_for_hmac"

func TestTokenService_EmptySecretRefused(t *testing.T) {
	service, err := sec.NewTokenService("", time.Hour, 0)
	assert.Nil(t, service)
	assert.ErrorIs(t, err, sec.ErrEmptySecret)
}

func TestTokenService_IssueThenVerify(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, time.Hour, 0)
	require.NoError(t, err)

	token, err := service.Issue("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenService_ExpiredTokenRejected(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	service, err := sec.NewTokenService(testSecret, 30*time.Minute, 0)
	require.NoError(t, err)
	service.WithClock(func() time.Time { return clock })

	token, err := service.Issue("alice")
	require.NoError(t, err)

	// Still valid one second before expiry.
	clock = clock.Add(30*time.Minute - time.Second)
	subject, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// Rejected once the expiry timestamp has passed. Leeway is zero by
	// default, so there is no skew tolerance.
	clock = clock.Add(2 * time.Second)
	_, err = service.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_LeewayToleratesSkew(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	service, err := sec.NewTokenService(testSecret, 30*time.Minute, 10*time.Second)
	require.NoError(t, err)
	service.WithClock(func() time.Time { return clock })

	token, err := service.Issue("alice")
	require.NoError(t, err)

	// 5 seconds past expiry is inside the configured 10s leeway.
	clock = clock.Add(30*time.Minute + 5*time.Second)
	subject, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// 15 seconds past expiry is outside it.
	clock = clock.Add(10 * time.Second)
	_, err = service.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_WrongKeyRejected(t *testing.T) {
	issuer, err := sec.NewTokenService(testSecret, time.Hour, 0)
	require.NoError(t, err)

	verifier, err := sec.NewTokenService("a_completely_different_signing_secret", time.Hour, 0)
	require.NoError(t, err)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_MalformedTokenRejected(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, time.Hour, 0)
	require.NoError(t, err)

	malformed := []string{
		"",
		"not-a-jwt",
		"aaaa.bbbb",
		"aaaa.bbbb.cccc",
		"eyJhbGciOiJub25lIn0.eyJzdWIiOiJhbGljZSJ9.", // alg=none, no signature
	}

	for _, token := range malformed {
		_, verr := service.Verify(token)
		assert.Error(t, verr, "token %q must be rejected", token)
	}
}

func TestTokenService_TamperedSubjectRejected(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, time.Hour, 0)
	require.NoError(t, err)

	token, err := service.Issue("alice")
	require.NoError(t, err)

	// Flip a byte in the payload segment; the signature no longer matches.
	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01

	_, err = service.Verify(string(tampered))
	assert.Error(t, err)
}
