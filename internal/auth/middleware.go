// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/constants"
	"github.com/rowanfield/compostly/internal/platform/ctxkey"
	"github.com/rowanfield/compostly/internal/platform/respond"
)

// errMissingIdentity signals a route that expected [RequireIdentity] in its
// chain but ran without it. Surfaced as the same generic 401.
var errMissingIdentity = apperr.Unauthorized(constants.GenericCredentialsMessage)

// IdentityResolver defines the interface the middleware needs to turn a
// bearer token into an authenticated identity.
//
// # Why an interface?
//
// Decoupling the middleware from the concrete [Service] allows handler
// tests to inject a fake resolver without a database or signing key.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*User, error)
}

// RequireIdentity guards a route group behind bearer-token authentication.
//
// # Flow
//  1. Extract 'Authorization: Bearer <token>' from the request.
//  2. Resolve the token into a [*User] via [IdentityResolver].
//  3. Inject the identity into the request context for downstream handlers.
//
// # Failure Mode
//
// A missing header, a malformed header, a bad token, and an unknown
// subject all abort with the same 401 and a 'WWW-Authenticate: Bearer'
// challenge. No anonymous pass-through exists: every route behind this
// middleware sees a fully resolved identity or nothing.
func RequireIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := bearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
				return
			}

			identity, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyIdentity, identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the resolved [*User] from the context.
//
// # Returns
//   - The authenticated identity when the request passed [RequireIdentity].
//   - nil otherwise.
func IdentityFromContext(ctx context.Context) *User {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*User)
	if !ok {
		return nil
	}
	return identity
}

// bearerToken extracts the token from an 'Authorization: Bearer x' header.
func bearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
