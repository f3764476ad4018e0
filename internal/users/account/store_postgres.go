// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

// PostgreSQL implementation of the account [Repository].
//
// # Architecture
//
// The repository is strictly separated from domain logic. It implements the
// domain-defined [Repository] interface using the [pgxpool.Pool] connection
// manager, and builds its column lists from the shared schema descriptors.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types via dberr to avoid leaking storage
// implementation details.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/database/schema"
	"github.com/identra/identra/internal/platform/dberr"
)

// # Query Fragments

var (
	accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

	selectAccountQuery = fmt.Sprintf("SELECT %s FROM %s", accountColumns, schema.UserAccount.Table)
)

// # Account Repository

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the account [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanAccount hydrates a full Account entity from a single row.
func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Name,
		&account.Age,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.LastLogin,
		&account.LoginAttempts,
		&account.Permissions,
		&account.Metadata,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

/*
FindByID retrieves an account record by its unique ID.

Description: Primary key resolution for accounts, including soft-deleted ones
so that administrative tooling can still inspect them.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := selectAccountQuery + " WHERE id = $1"

	account, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return account, nil
}

/*
FindByUsername retrieves an account record by its unique username.

Description: Standard lookup for profile resolution, regardless of status.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := selectAccountQuery + " WHERE username = $1"

	account, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_username_failed: %w", err)
	}

	return account, nil
}

/*
FindActiveByUsername retrieves a non-deleted account by username.

Description: Authentication lookup. Soft-deleted accounts surface as NotFound.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindActiveByUsername(context context.Context, username string) (*Account, error) {
	query := selectAccountQuery + " WHERE username = $1 AND status != 'deleted'"

	account, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_active_failed: %w", err)
	}

	return account, nil
}

/*
FindByEmail retrieves an account record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := selectAccountQuery + " WHERE email = $1"

	account, err := scanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return account, nil
}

/*
Create persists a new account record into the users.account table.

Description: Deep-persists account state, initializing timestamps if not
provided. Username and email uniqueness is enforced by the table's unique
constraints in the same statement, so two racing creations can never both
succeed.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.DuplicateUsername, apperr.DuplicateEmail or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		schema.UserAccount.Table, accountColumns)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Username,
		account.Email,
		account.Name,
		account.Age,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.LastLogin,
		account.LoginAttempts,
		account.Permissions,
		account.Metadata,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_create")
	}

	return nil
}

/*
Update persists changes to an account's mutable profile fields.

Description: Synchronizes the in-memory account state with the database,
refreshing the updatedat timestamp. Unique-constraint violations on username
or email are mapped to their domain conflicts.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: apperr.NotFound, uniqueness conflicts or update failures
*/
func (repository *PostgresRepository) Update(context context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET username = $2, email = $3, name = $4, age = $5, role = $6, metadata = $7, updatedat = $8
		WHERE id = $1`

	account.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		account.ID,
		account.Username,
		account.Email,
		account.Name,
		account.Age,
		account.Role,
		account.Metadata,
		account.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
UpdatePassword replaces only the password hash for a specific account.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) UpdatePassword(context context.Context, id, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
ResetCredentials replaces the password hash and clears the failed-login
counter in a single statement.

Description: Administrative password reset. Clearing the counter in the same
statement keeps the reset atomic relative to concurrent failed logins.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) ResetCredentials(context context.Context, id, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, loginattempts = 0, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_reset_credentials_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
RecordFailure atomically increments the failed-login counter.

Description: Single-statement read-modify-write. The threshold rule is applied
inside the same UPDATE, so concurrent failures on one account serialize on the
row and can neither lose an increment nor race past the threshold. No lock is
held while password hashing runs in the service layer.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - int: The attempt count after the increment
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) RecordFailure(context context.Context, id string) (int, error) {
	const query = `
		UPDATE users.account
		SET loginattempts = loginattempts + 1,
		    status = CASE WHEN loginattempts + 1 >= $2 THEN 'suspended' ELSE status END,
		    updatedat = NOW()
		WHERE id = $1
		RETURNING loginattempts`

	var attempts int
	err := repository.pool.QueryRow(context, query, id, LockoutThreshold).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Account")
		}
		return 0, fmt.Errorf("postgres_account_repo_record_failure_failed: %w", err)
	}

	return attempts, nil
}

/*
RecordSuccess atomically clears the failed-login counter and stamps the
last-login time. The account status is left untouched.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) RecordSuccess(context context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET loginattempts = 0, lastloginat = NOW(), updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_record_success_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
SetStatus updates the lifecycle status of an account.

Description: A transition to Active also clears the failed-login counter in
the same statement (admin unlock).

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status) error {
	const query = `
		UPDATE users.account
		SET status = $2,
		    loginattempts = CASE WHEN $2::text = 'active' THEN 0 ELSE loginattempts END,
		    updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, string(status))
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
SetPermissions replaces the full permission set of an account.

Parameters:
  - context: context.Context
  - id: string
  - permissions: []string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) SetPermissions(context context.Context, id string, permissions []string) error {
	const query = `
		UPDATE users.account
		SET permissions = $2, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, permissions)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_permissions_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
SoftDelete moves an account into the terminal Deleted status.

Description: Retention-friendly deletion. The record is kept and the unique
username/email stay reserved, per the directory's uniqueness rules.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET status = 'deleted', updatedat = NOW()
		WHERE id = $1 AND status != 'deleted'`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}
