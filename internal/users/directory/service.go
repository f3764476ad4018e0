// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/ctxutil"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/internal/platform/validate"
	"github.com/identra/identra/internal/users/account"
	"github.com/identra/identra/pkg/fold"
	"github.com/identra/identra/pkg/pagination"
)

// StatsCacheTTL bounds how stale a served stats snapshot can be.
const StatsCacheTTL = 30 * time.Second

// # Service

// Service implements the read-only directory use cases.
type Service struct {
	repository Repository
	statsCache StatsCache
}

// NewService constructs a new directory [Service] with necessary dependencies.
func NewService(repository Repository, statsCache StatsCache) *Service {
	return &Service{
		repository: repository,
		statsCache: statsCache,
	}
}

/*
Search returns one page of accounts matching the filter.

Description: The search term is case- and accent-folded before matching, the
page size is clamped to the directory maximum, and soft-deleted accounts are
excluded unless the filter requests them.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params (1-indexed)

Returns:
  - []account.Account: Ordered page of matches
  - pagination.Meta: Page metadata with the total match count
  - error: apperr.ValidationError or storage failures
*/
func (service *Service) Search(context context.Context, filter Filter, params pagination.Params) ([]account.Account, pagination.Meta, error) {

	validator := &validate.Validator{}
	if filter.Role != "" {
		validator.OneOf("role", filter.Role,
			string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleGuest))
	}
	if filter.Status != "" {
		validator.OneOf("status", filter.Status,
			string(account.StatusActive), string(account.StatusInactive),
			string(account.StatusSuspended), string(account.StatusDeleted))
	}
	if err := validator.Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	filter.Query = fold.Casefold(filter.Query)
	params = params.Clamp()

	accounts, total, err := service.repository.Search(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return accounts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Stats returns the aggregate snapshot over the full account collection.

Description: Serves the cached snapshot when fresh enough; on a miss it
recomputes from storage and repopulates the cache. A cache write failure is
logged and never fails the read.

Parameters:
  - context: context.Context

Returns:
  - *Stats: Aggregate counters over every status
  - error: Storage failures
*/
func (service *Service) Stats(context context.Context) (*Stats, error) {

	if cached, err := service.statsCache.Get(context); err == nil {
		return cached, nil
	}

	stats, err := service.repository.Stats(context)
	if err != nil {
		return nil, fmt.Errorf("directory_service_stats_failed: %w", err)
	}

	if err := service.statsCache.Set(context, stats, StatsCacheTTL); err != nil {
		ctxutil.GetLogger(context).Warn("stats_cache_write_failed", "error", err)
	}

	return stats, nil
}

/*
Export returns the full account collection for administrative export.

Description: Admin-only. Includes soft-deleted accounts; password hashes are
never part of any serialized representation.

Parameters:
  - context: context.Context
  - actorRole: sec.Role

Returns:
  - []account.Account: The full collection snapshot, newest first
  - error: apperr.Forbidden or storage failures
*/
func (service *Service) Export(context context.Context, actorRole sec.Role) ([]account.Account, error) {

	if !actorRole.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("Administrator role required")
	}

	accounts, err := service.repository.All(context)
	if err != nil {
		return nil, fmt.Errorf("directory_service_export_failed: %w", err)
	}

	ctxutil.GetLogger(context).Info("directory_exported", "count", len(accounts))
	return accounts, nil
}

/*
Activity returns the authentication activity view for one account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Activity: Activity snapshot
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Activity(context context.Context, id string) (*Activity, error) {
	return service.repository.FindActivity(context, id)
}
