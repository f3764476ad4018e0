// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/identra/identra/internal/platform/apperr"
)

// Constraint names from the users.account schema. The unique-violation
// mapping dispatches on these so that a 23505 surfaces as the right
// domain conflict instead of a generic one.
const (
	ConstraintAccountUsername = "account_username_key"
	ConstraintAccountEmail    = "account_email_key"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique-constraint mapping (SQLSTATE 23505). The insert/update and the
	// uniqueness check are the same atomic statement, so two racing creations
	// of the same username cannot both succeed — the loser lands here.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case ConstraintAccountUsername:
			return apperr.DuplicateUsername()
		case ConstraintAccountEmail:
			return apperr.DuplicateEmail()
		default:
			return apperr.Conflict("Resource already exists")
		}
	}

	// 3. Unknown query errors become Internal Server Errors. The action tag
	// survives in the logged cause, never in the client response.
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
