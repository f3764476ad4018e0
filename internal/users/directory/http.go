// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/identra/identra/internal/platform/middleware"
	requestutil "github.com/identra/identra/internal/platform/request"
	"github.com/identra/identra/internal/platform/respond"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/pkg/convert"
	"github.com/identra/identra/pkg/pagination"
	"github.com/identra/identra/pkg/query"
)

// # Definitions & Constructors

// Handler implements the read-only directory HTTP endpoints.
type Handler struct {
	directoryService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{directoryService: service}
}

// Routes returns a [chi.Router] configured with directory-specific routes.
//
// # Endpoints
//   - GET /search : Paginated account search.
//   - GET /stats  : Aggregate collection statistics.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/search", handler.search)
		r.Get("/stats", handler.stats)
		r.Get("/accounts/{accountID}/activity", handler.activity)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/export", handler.export)
	})

	return router
}

// # Handlers

/*
Search returns a paginated page of accounts matching the query.

GET /api/v1/directory/search?q=john&role=user&status=active&permissions=reports:read&include_deleted=false&page=1&limit=20

Description: Case-insensitive substring match over username, name and email.
The permissions parameter is a comma-separated list; matching accounts must
hold every listed permission. Soft-deleted accounts are excluded unless
include_deleted=true.

Response:
  - 200: Paginated accounts with total count metadata
  - 400: ErrInvalidJSON: Unknown role or status filter value
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	queryValues := request.URL.Query()

	filter := Filter{
		Query:          queryValues.Get("q"),
		Role:           queryValues.Get("role"),
		Status:         queryValues.Get("status"),
		Permissions:    query.StringSlice(queryValues.Get("permissions")),
		IncludeDeleted: convert.ToBool(queryValues.Get("include_deleted")),
	}

	accounts, meta, err := handler.directoryService.Search(
		request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

/*
Stats returns the aggregate snapshot over the full account collection.

GET /api/v1/directory/stats

Response:
  - 200: Stats: total, active, admin, user, guest, with_email
*/
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.directoryService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

/*
Activity returns the authentication activity view for one account.

GET /api/v1/directory/accounts/{accountID}/activity

Response:
  - 200: Activity: last login, failed attempts, computed predicates
  - 400: ErrInvalidJSON: Malformed account ID
  - 404: NotFound: No account with this ID
*/
func (handler *Handler) activity(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	activity, err := handler.directoryService.Activity(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, activity)
}

/*
Export streams the full account collection as a JSON attachment.

GET /api/v1/directory/export

Description: Administrative export including soft-deleted accounts. Password
hashes are never serialized.

Response:
  - 200: JSON array of accounts, served as a file attachment
  - 403: Forbidden: Actor is not an administrator
*/
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.directoryService.Export(
		request.Context(), requestutil.ActorRole(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Disposition", `attachment; filename="accounts.json"`)
	respond.JSON(writer, http.StatusOK, accounts)
}
