// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

/*
Package directory implements the read-only query surface over the account
collection: search, aggregate statistics, activity views and exports.

# Architecture

The package performs no writes. Queries read consistent snapshots and are not
required to be serializable with concurrent account mutations; stale-but-consistent
reads are acceptable.

  - Search: Case-insensitive substring match over username, name and email.
  - Stats: Role and status aggregates over the full collection snapshot.
  - Cache: Stats snapshots are cached in Redis with a short TTL.
*/
package directory

import (
	"context"
	"time"

	"github.com/identra/identra/internal/users/account"
	"github.com/identra/identra/pkg/pagination"
)

// # Query Types

// Filter narrows a directory search.
type Filter struct {
	// Query is matched case-insensitively as a substring of username, name
	// and email. Empty matches everything.
	Query string

	// Role restricts results to a single role when non-empty.
	Role string

	// Status restricts results to a single status when non-empty.
	Status string

	// Permissions restricts results to accounts holding every listed
	// permission when non-empty.
	Permissions []string

	// IncludeDeleted widens the result set to soft-deleted accounts.
	// Deleted accounts are excluded by default.
	IncludeDeleted bool
}

// Stats is an aggregate snapshot over the full account collection,
// including every status.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Admin     int `json:"admin"`
	User      int `json:"user"`
	Guest     int `json:"guest"`
	WithEmail int `json:"with_email"`
}

// Activity is a read-only view of an account's authentication activity.
type Activity struct {
	AccountID     string     `json:"account_id"`
	Username      string     `json:"username"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	LoginAttempts int        `json:"login_attempts"`
	IsActive      bool       `json:"is_active"`
	IsLocked      bool       `json:"is_locked"`
}

// # Repository Contracts

// Repository defines the read-only persistence contract for directory queries.
type Repository interface {
	/*
		Search returns one page of accounts matching the filter, together with
		the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - params: pagination.Params (1-indexed, pre-clamped)

		Returns:
		  - []account.Account: Ordered page of matches (newest first)
		  - int: Total number of matches across all pages
		  - error: Execution failures
	*/
	Search(context context.Context, filter Filter, params pagination.Params) ([]account.Account, int, error)

	/*
		Stats computes the aggregate snapshot over the full collection.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Stats: Aggregate counters over every status
		  - error: Execution failures
	*/
	Stats(context context.Context) (*Stats, error)

	/*
		All streams every account in the collection, newest first.
		Used by the administrative export.

		Parameters:
		  - context: context.Context

		Returns:
		  - []account.Account: The full collection snapshot
		  - error: Execution failures
	*/
	All(context context.Context) ([]account.Account, error)

	/*
		FindActivity loads the authentication activity view for one account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Activity: Activity snapshot
		  - error: apperr.NotFound or execution failures
	*/
	FindActivity(context context.Context, id string) (*Activity, error)
}

// StatsCache defines the snapshot cache contract for aggregate statistics.
type StatsCache interface {
	/*
		Get retrieves the cached stats snapshot.

		Returns:
		  - *Stats: Cached snapshot
		  - error: apperr.NotFound on a cache miss, or connectivity errors
	*/
	Get(context context.Context) (*Stats, error)

	/*
		Set stores a stats snapshot with a TTL.

		Parameters:
		  - context: context.Context
		  - stats: *Stats
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Set(context context.Context, stats *Stats, ttl time.Duration) error
}
