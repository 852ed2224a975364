// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT
// signing) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces defined by
// the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime applied when none is configured.
const DefaultTokenTTL = 60 * time.Minute

// ErrEmptySecret is returned when a TokenService is constructed without a
// signing key. Callers must treat it as fatal: the server refuses to start
// rather than sign tokens with a guessable key.
var ErrEmptySecret = errors.New("sec: signing secret must not be empty")

// TokenService issues and verifies stateless HS256-signed bearer tokens.
//
// # Statelessness
//
// A token is a pure function of its own signed content plus the current
// time. Verify never consults the database, and there is no revocation
// list: a leaked token stays valid until its expiry. This trade-off
// (statelessness over revocability) is deliberate and must not be
// weakened by adding server-side lookups at this layer.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService.
//
// # Parameters
//   - secret: The symmetric signing key. Empty keys are rejected.
//   - ttl: Token lifetime; [DefaultTokenTTL] when non-positive.
//   - leeway: Clock-skew tolerance applied to expiry checks. Zero by default.
func NewTokenService(secret string, ttl, leeway time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		leeway: leeway,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for deterministic tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// TTL returns the configured token lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue creates a signed token carrying only a subject and an expiry claim.
//
// # Claims
//
// The claim set is intentionally minimal ({sub, exp}): anything else the
// server needs about the caller is re-read from the database at resolution
// time, so stale profile data can never be baked into a live token.
func (service *TokenService) Issue(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(service.now().Add(service.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string and returns
// its subject.
//
// # Fail Closed
//
// Any mismatch is rejected: wrong signing algorithm, bad signature,
// malformed structure, missing or elapsed expiry, missing subject. The
// returned errors are for server-side logs only; callers must collapse
// them into one generic 401 so the response never acts as an oracle.
func (service *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(service.now),
		jwt.WithLeeway(service.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("sec: invalid token claims")
	}

	if claims.Subject == "" {
		return "", errors.New("sec: token has no subject")
	}

	return claims.Subject, nil
}
