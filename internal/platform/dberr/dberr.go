// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, Postgres SQLSTATE codes) are
// mapped to domain-friendly [apperr.AppError] values so raw datastore
// error text never leaks to API clients.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rowanfield/compostly/internal/platform/apperr"
)

// IsNoRows reports whether err is the pgx empty-result sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// rejection (SQLSTATE 23505). Concurrent registrations racing past the
// application-level pre-check land here.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsIntegrityViolation reports whether err is any Postgres integrity
// constraint rejection (SQLSTATE class 23): unique, foreign key, not-null,
// or check constraint.
func IsIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// # Parameters
//   - err: The raw database error.
//   - resource: Client-facing resource name used for NOT_FOUND messages.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if IsNoRows(err) {
		return apperr.NotFound(resource)
	}

	if IsIntegrityViolation(err) {
		return apperr.ConstraintViolation("The request conflicts with existing data")
	}

	return apperr.Internal(err)
}
