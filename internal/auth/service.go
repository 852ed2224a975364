// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"context"
	"fmt"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/constants"
)

// TokenProvider defines the contract for issuing and verifying bearer tokens.
//
// # Statelessness
//
// Verify must be a pure function of the token's signed content plus the
// current time. Implementations must not consult the persistence layer.
type TokenProvider interface {
	// Issue creates a signed token whose subject is the given username.
	Issue(subject string) (string, error)

	// Verify checks a token and returns its subject, or an error on any
	// signature, structure, or expiry failure.
	Verify(token string) (string, error)
}

// PasswordHasher defines the contract for credential hashing.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the plaintext.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches the stored hash. It must return
	// false, never fail, on malformed stored hashes.
	Verify(plain, hash string) bool
}

// Service implements registration, login, and identity resolution.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or resolution logic must be reviewed with extra care.
type Service struct {
	userRepository UserRepository
	hasher         PasswordHasher
	tokenProvider  TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, hasher PasswordHasher, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokenProvider:  tokenProv,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Country  *string
	Location *string
}

// Register validates uniqueness, hashes the password, and persists a brand
// new user account.
//
// # Returns
//   - A pointer to the newly created [*User].
//   - [apperr.Duplicate] if the username or the email is already taken; the
//     error never states which one, to resist account enumeration.
//
// # Concurrency
//
// The uniqueness pre-check is optimistic: a concurrent registration that
// slips between the check and the insert is caught by the database unique
// constraint and surfaced as the same [apperr.Duplicate].
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// ── 1. Uniqueness Pre-Check ───────────────────────────────────────────

	_, err := service.userRepository.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil {
		return nil, apperr.Duplicate("Username or email is already registered")
	}
	if apperr.As(err) == nil || apperr.As(err).Code != "NOT_FOUND" {
		return nil, fmt.Errorf("auth_service_uniqueness_check_failed: %w", err)
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. The work factor comes from
	// configuration via the injected hasher.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Country:      input.Country,
		Location:     input.Location,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(ctx, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the wire payload of a successful authentication.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login validates user credentials and issues a bearer token bound to the
// username.
//
// # Anti-Enumeration
//
// An unknown username and a wrong password produce byte-identical 401
// responses. The password check still runs against a throwaway hash when
// the account does not exist, so the two paths cost roughly the same.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.userRepository.FindByUsername(ctx, input.Username)
	if err != nil {
		// Burn a verification anyway to keep response timing uniform.
		service.hasher.Verify(input.Password, phantomHash)
		return nil, apperr.Unauthorized(incorrectCredentialsMessage)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(incorrectCredentialsMessage)
	}

	accessToken, err := service.tokenProvider.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// Resolve turns a bearer token into the authenticated identity it encodes.
//
// # Flow
//  1. Verify the token (signature, structure, expiry) via [TokenProvider].
//  2. Look up the subject in the user repository.
//
// # Anti-Enumeration
//
// A well-signed token for a deleted or never-existing account fails with
// the exact same generic error as a malformed token, so the auth path
// cannot be used to probe which usernames are registered.
func (service *Service) Resolve(ctx context.Context, token string) (*User, error) {
	subject, err := service.tokenProvider.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized(constants.GenericCredentialsMessage)
	}

	user, err := service.userRepository.FindByUsername(ctx, subject)
	if err != nil {
		return nil, apperr.Unauthorized(constants.GenericCredentialsMessage)
	}

	return user, nil
}

// incorrectCredentialsMessage is the single message for every login failure.
const incorrectCredentialsMessage = "Incorrect username or password"

// phantomHash is a syntactically valid bcrypt hash of random data, used to
// equalize login timing when the username does not exist.
const phantomHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
