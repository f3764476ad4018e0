// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package account

import "context"

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
//
// # Atomicity
//
// RecordFailure, RecordSuccess and SetStatus must each be a single atomic
// read-modify-write relative to concurrent calls on the same account id.
// Implementations must enforce username/email uniqueness atomically with the
// insert/update itself, never as a separate check.
type Repository interface {
	/*
		FindByID retrieves an account record by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByUsername retrieves an account record by its unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		FindActiveByUsername retrieves a non-deleted account by username.

		Description: Authentication lookup. Soft-deleted accounts are invisible
		here and surface as NotFound.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindActiveByUsername(context context.Context, username string) (*Account, error)

	/*
		FindByEmail retrieves an account record by its unique email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand new account.

		Parameters:
		  - context: context.Context
		  - account: *Account (Hydrated entity)

		Returns:
		  - error: apperr.DuplicateUsername, apperr.DuplicateEmail or storage failures
	*/
	Create(context context.Context, account *Account) error

	/*
		Update persists changes to an account's mutable profile fields
		(username, email, name, age, role, metadata).

		Parameters:
		  - context: context.Context
		  - account: *Account (Hydrated entity with changes)

		Returns:
		  - error: Uniqueness conflicts or storage failures
	*/
	Update(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the password hash for an account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - error: Execution failures
	*/
	UpdatePassword(context context.Context, id, newHash string) error

	/*
		ResetCredentials replaces the password hash and clears the failed-login
		counter in one statement. Used by the administrative password reset.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - error: Execution failures
	*/
	ResetCredentials(context context.Context, id, newHash string) error

	/*
		RecordFailure atomically increments the failed-login counter and
		suspends the account when the counter reaches the lockout threshold.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - int: The attempt count after the increment
		  - error: Execution failures
	*/
	RecordFailure(context context.Context, id string) (int, error)

	/*
		RecordSuccess atomically clears the failed-login counter and stamps
		the last-login time.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	RecordSuccess(context context.Context, id string) error

	/*
		SetStatus updates the lifecycle status of an account. A transition to
		Active also clears the failed-login counter (admin unlock).

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: Status

		Returns:
		  - error: Execution failures
	*/
	SetStatus(context context.Context, id string, status Status) error

	/*
		SetPermissions replaces the full permission set of an account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - permissions: []string

		Returns:
		  - error: Execution failures
	*/
	SetPermissions(context context.Context, id string, permissions []string) error

	/*
		SoftDelete flags an account as logically deleted by moving it to the
		terminal Deleted status. The record is retained.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}
