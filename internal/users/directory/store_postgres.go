// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

// PostgreSQL implementation of the directory [Repository].
//
// # Architecture
//
// All queries here are read-only. Filter predicates are assembled dynamically
// with positional parameters so that every user-supplied value stays out of
// the SQL text.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/database/schema"
	"github.com/identra/identra/internal/users/account"
	"github.com/identra/identra/pkg/pagination"
)

// # Directory Repository

// PostgresRepository implements the directory [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the directory [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// buildPredicate assembles the WHERE clause for a filter.
// It returns the clause (starting with " WHERE") and the bound arguments.
func buildPredicate(filter Filter) (string, []any) {
	conditions := make([]string, 0, 4)
	arguments := make([]any, 0, 4)

	appendCondition := func(condition string, value any) {
		arguments = append(arguments, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(arguments)))
	}

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		appendCondition("(username ILIKE $%[1]d OR name ILIKE $%[1]d OR email ILIKE $%[1]d)", pattern)
	}
	if filter.Role != "" {
		appendCondition("role = $%d", filter.Role)
	}
	if len(filter.Permissions) > 0 {
		appendCondition("permissions @> $%d", filter.Permissions)
	}
	if filter.Status != "" {
		appendCondition("status = $%d", filter.Status)
	} else if !filter.IncludeDeleted {
		// Soft-deleted accounts stay invisible unless explicitly requested.
		conditions = append(conditions, "status != 'deleted'")
	}

	if len(conditions) == 0 {
		return "", arguments
	}
	return " WHERE " + strings.Join(conditions, " AND "), arguments
}

// likeEscaper protects ILIKE metacharacters so a search term containing
// '%' or '_' matches the literal character instead of acting as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// scanAccounts hydrates a result set into account entities.
func scanAccounts(rows pgx.Rows) ([]account.Account, error) {
	defer rows.Close()

	accounts := make([]account.Account, 0)
	for rows.Next() {
		var entity account.Account
		err := rows.Scan(
			&entity.ID,
			&entity.Username,
			&entity.Email,
			&entity.Name,
			&entity.Age,
			&entity.PasswordHash,
			&entity.Role,
			&entity.Status,
			&entity.LastLogin,
			&entity.LoginAttempts,
			&entity.Permissions,
			&entity.Metadata,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, entity)
	}

	return accounts, rows.Err()
}

/*
Search returns one page of accounts matching the filter with the total count.

Description: Case-insensitive substring match over username, name and email.
Results are ordered newest first. The count and the page are two statements
over the same connection snapshot; a concurrent write may skew the pair by a
row, which the read model tolerates.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params (1-indexed, pre-clamped)

Returns:
  - []account.Account: Ordered page of matches
  - int: Total number of matches
  - error: Execution failures
*/
func (repository *PostgresRepository) Search(context context.Context, filter Filter, params pagination.Params) ([]account.Account, int, error) {
	predicate, arguments := buildPredicate(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", schema.UserAccount.Table, predicate)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_directory_repo_count_failed: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY createdat DESC LIMIT $%d OFFSET $%d",
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
		predicate,
		len(arguments)+1,
		len(arguments)+2,
	)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, pageQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_directory_repo_search_failed: %w", err)
	}

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_directory_repo_scan_failed: %w", err)
	}

	return accounts, total, nil
}

/*
Stats computes the aggregate snapshot over the full collection.

Description: Single-statement aggregation with FILTER clauses, so every
counter comes from the same snapshot. All statuses are included, soft-deleted
accounts too.

Parameters:
  - context: context.Context

Returns:
  - *Stats: Aggregate counters
  - error: Execution failures
*/
func (repository *PostgresRepository) Stats(context context.Context) (*Stats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'user'),
			COUNT(*) FILTER (WHERE role = 'guest'),
			COUNT(*) FILTER (WHERE email IS NOT NULL)
		FROM users.account`

	stats := &Stats{}
	err := repository.pool.QueryRow(context, query).Scan(
		&stats.Total,
		&stats.Active,
		&stats.Admin,
		&stats.User,
		&stats.Guest,
		&stats.WithEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_directory_repo_stats_failed: %w", err)
	}

	return stats, nil
}

/*
All returns every account in the collection, newest first.

Description: Full snapshot for the administrative export, including
soft-deleted accounts.

Parameters:
  - context: context.Context

Returns:
  - []account.Account: The full collection
  - error: Execution failures
*/
func (repository *PostgresRepository) All(context context.Context) ([]account.Account, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY createdat DESC",
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_directory_repo_all_failed: %w", err)
	}

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_directory_repo_all_scan_failed: %w", err)
	}

	return accounts, nil
}

/*
FindActivity loads the authentication activity view for one account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Activity: Activity snapshot with computed predicates
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresRepository) FindActivity(context context.Context, id string) (*Activity, error) {
	const query = `
		SELECT id, username, lastloginat, loginattempts, status
		FROM users.account
		WHERE id = $1`

	activity := &Activity{}
	var status account.Status
	err := repository.pool.QueryRow(context, query, id).Scan(
		&activity.AccountID,
		&activity.Username,
		&activity.LastLogin,
		&activity.LoginAttempts,
		&status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_directory_repo_activity_failed: %w", err)
	}

	activity.IsActive = status == account.StatusActive
	activity.IsLocked = status == account.StatusSuspended || status == account.StatusDeleted
	return activity, nil
}
