// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

/*
HTTP delivery layer for the account domain.

# Architecture

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Role gates on administrative routes; actor identity from JWT claims.
  - Validation: Field constraints are enforced in the service layer.

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/identra/identra/internal/platform/middleware"
	requestutil "github.com/identra/identra/internal/platform/request"
	"github.com/identra/identra/internal/platform/respond"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements account-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account lifecycle entry points (creation,
// authentication, profile updates, credentials, lifecycle and permissions).
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account-specific routes.
//
// # Endpoints
//   - POST /             : Creates a new account.
//   - POST /authenticate : Verifies credentials and returns a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/", handler.create)
	router.Post("/authenticate", handler.authenticate)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{accountID}", handler.get)
		r.Patch("/{accountID}", handler.update)
		r.Delete("/{accountID}", handler.delete)
		r.Post("/{accountID}/change-password", handler.changePassword)
	})

	// Administrative endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/{accountID}/reset-password", handler.resetPassword)
		r.Put("/{accountID}/status", handler.setStatus)
		r.Post("/{accountID}/permissions", handler.addPermission)
		r.Delete("/{accountID}/permissions/{permission}", handler.removePermission)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Age      *int    `json:"age,omitempty"`
	Role     string  `json:"role,omitempty"`
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username *string        `json:"username,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Name     *string        `json:"name,omitempty"`
	Age      *int           `json:"age,omitempty"`
	Role     *string        `json:"role,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type addPermissionRequest struct {
	Permission string `json:"permission"`
}

// # Handlers

/*
Create handles the creation of a new account.

POST /api/v1/accounts

Description: Validates input, enforces uniqueness, and persists a new account
profile with Active status.

Request:
  - Body: createRequest (Username, Email, Password, Name, Age, Role)

Response:
  - 201: Account: Created account profile (password hash never included)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: DuplicateUsername / DuplicateEmail: Identity already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.accountService.Create(request.Context(), CreateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Age:      input.Age,
		Role:     input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Authenticate verifies account credentials and issues an access token.

POST /api/v1/accounts/authenticate

Description: Rejects locked accounts before the credential check, applies the
lockout counter on failure, and returns a signed JWT on success.

Request:
  - Body: authenticateRequest (Username, Password)

Response:
  - 200: AuthSession: Access token and account profile
  - 401: InvalidCredentials: Bad username/password pair
  - 404: NotFound: Unknown or deleted username
  - 423: AccountLocked: Account suspended by the lockout policy
*/
func (handler *Handler) authenticate(writer http.ResponseWriter, request *http.Request) {
	var input authenticateRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.accountService.Authenticate(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   session.ExpiresIn / time.Second,
		FieldAccount:     session.Account,
	})
}

/*
Get returns a single account profile by ID.

GET /api/v1/accounts/{accountID}

Response:
  - 200: Account: The account profile
  - 404: NotFound: No account with this ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.accountService.Get(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Update applies a partial profile update.

PATCH /api/v1/accounts/{accountID}

Description: Only the fields present in the body are changed; every changed
field is re-validated and uniqueness is re-checked excluding the account itself.

Request:
  - Body: updateRequest (Username, Email, Name, Age, Role, Metadata — all optional)

Response:
  - 200: Account: Updated account profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: NotFound: No account with this ID
  - 409: DuplicateUsername / DuplicateEmail: Identity already taken
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.accountService.Update(request.Context(), accountID, UpdateInput{
		Username: input.Username,
		Email:    input.Email,
		Name:     input.Name,
		Age:      input.Age,
		Role:     input.Role,
		Metadata: input.Metadata,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Delete soft-deletes an account.

DELETE /api/v1/accounts/{accountID}

Description: The account moves to the terminal Deleted status; the record is
retained and its username stays reserved.

Response:
  - 204: No Content: Account deleted
  - 404: NotFound: No account with this ID (or already deleted)
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ChangePassword rotates the credentials of an account.

POST /api/v1/accounts/{accountID}/change-password

Description: Verifies the current password before applying the new one. The
stored hash is untouched when verification fails.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: InvalidCredentials: Current password is wrong
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.ChangePassword(
		request.Context(), accountID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
ResetPassword sets a new password without the old one.

POST /api/v1/accounts/{accountID}/reset-password

Description: Administrative recovery. Also clears the failed-login counter.

Request:
  - Body: resetPasswordRequest (NewPassword)

Response:
  - 200: Success: Password reset
  - 403: Forbidden: Actor is not an administrator
  - 404: NotFound: No account with this ID
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.ResetPassword(
		request.Context(), accountID, input.NewPassword, requestutil.ActorRole(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password reset successfully",
	})
}

/*
SetStatus transitions an account to a new lifecycle status.

PUT /api/v1/accounts/{accountID}/status

Description: Admin-only. Unlock (Suspended to Active) clears the failed-login
counter; Deleted is a one-way transition.

Request:
  - Body: setStatusRequest (Status)

Response:
  - 200: Success: Status changed
  - 403: Forbidden: Actor is not an administrator
  - 422: InvalidTransition: Transition out of Deleted
*/
func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.SetStatus(
		request.Context(), accountID, Status(input.Status), requestutil.ActorRole(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldStatus: input.Status,
	})
}

/*
AddPermission grants a permission string to an account.

POST /api/v1/accounts/{accountID}/permissions

Request:
  - Body: addPermissionRequest (Permission)

Response:
  - 200: Success: Permission granted (idempotent)
  - 403: Forbidden: Actor is not an administrator
  - 404: NotFound: No account with this ID
*/
func (handler *Handler) addPermission(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addPermissionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.AddPermission(
		request.Context(), accountID, input.Permission, requestutil.ActorRole(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Permission granted",
	})
}

/*
RemovePermission revokes a permission string from an account.

DELETE /api/v1/accounts/{accountID}/permissions/{permission}

Response:
  - 204: No Content: Permission revoked (idempotent)
  - 403: Forbidden: Actor is not an administrator
  - 404: NotFound: No account with this ID
*/
func (handler *Handler) removePermission(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.UUID(request, "accountID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	permission := requestutil.ID(request, "permission")

	err = handler.accountService.RemovePermission(
		request.Context(), accountID, permission, requestutil.ActorRole(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
