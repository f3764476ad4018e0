// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

/*
Account service orchestration.

Architecture:

  - Service: Orchestrates business logic (Create, Authenticate, lifecycle).
  - Repository: Abstracted persistence interface (Postgres).
  - Security: Leverages bcrypt hashing and RSA-signed JWTs.

The service is the sole writer-facing component of the account collection.
No other layer mutates stored accounts directly.
*/
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/constants"
	"github.com/identra/identra/internal/platform/ctxutil"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/internal/platform/validate"
	"github.com/identra/identra/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given account.
	//
	// # Parameters
	//   - accountID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(accountID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements account management use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or authentication logic must be reviewed by the security team.
type Service struct {
	repository    Repository
	tokenProvider TokenProvider
}

// NewService constructs a new account [Service] with necessary dependencies.
func NewService(repository Repository, tokenProvider TokenProvider) *Service {
	return &Service{
		repository:    repository,
		tokenProvider: tokenProvider,
	}
}

// # Creation Flow

// CreateInput holds the data required to enroll a new account.
type CreateInput struct {
	Username string
	Email    *string
	Password string
	Name     string
	Age      *int
	Role     string // Defaults to "user" when empty.
}

/*
Create validates, hashes, and persists a brand new account.

Description: Applies every field constraint before any persistence mutation,
hashes the password, and persists with Active status. Uniqueness of username
and email is enforced by the storage layer atomically with the insert.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Account: Created entity
  - error: apperr.ValidationError, apperr.DuplicateUsername, apperr.DuplicateEmail or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Account, error) {

	role := input.Role
	if role == "" {
		role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		OneOf(FieldRole, role, string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleGuest))

	if input.Email != nil && *input.Email != "" {
		validator.Email(FieldEmail, *input.Email)
	}
	if input.Age != nil {
		validator.Range(FieldAge, *input.Age, 0, 150)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Fixed cost keeps offline brute
	// force expensive while bounding CPU during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	// Construct the new Account entity. Time-sortable ID to prevent PG index fragmentation.
	account := &Account{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        normalizeEmail(input.Email),
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Age:          input.Age,
		Role:         sec.Role(role),
		Status:       StatusActive,
		Permissions:  []string{},
		Metadata:     map[string]any{},
	}

	if err := service.repository.Create(context, account); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("account_created",
		"account_id", account.ID,
		"username", account.Username,
		"role", account.Role,
	)

	return account, nil
}

// normalizeEmail maps an empty email to nil so the uniqueness rule only
// applies among accounts that actually have one.
func normalizeEmail(email *string) *string {
	if email == nil || *email == "" {
		return nil
	}
	return email
}

// # Authentication Flow

// AuthSession represents a successfully established authentication session.
type AuthSession struct {
	AccessToken string
	ExpiresIn   time.Duration
	Account     *Account
}

/*
Authenticate validates account credentials and issues an access token.

Description: Looks up the account by username (soft-deleted accounts surface
as NotFound), rejects locked accounts before the credential check without
counting an attempt, then performs the constant-time password comparison.
A failure increments the lockout counter atomically; the call that crosses
the threshold still reports bad credentials, the lock applies to subsequent
calls only.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *AuthSession: Access token and authenticated account
  - error: apperr.NotFound, apperr.Locked, apperr.InvalidCredentials or internal failures
*/
func (service *Service) Authenticate(context context.Context, username, password string) (*AuthSession, error) {

	account, err := service.repository.FindActiveByUsername(context, username)
	if err != nil {
		return nil, err
	}

	// Locked accounts reject before the credential check and never count
	// another attempt.
	if account.IsLocked() {
		return nil, apperr.Locked("Account is suspended after repeated failed logins")
	}

	// Constant-time comparison in bcrypt prevents timing attacks. No lock is
	// held during this deliberately expensive call.
	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		attempts, failureErr := service.repository.RecordFailure(context, account.ID)
		if failureErr != nil {
			return nil, fmt.Errorf("account_service_record_failure_failed: %w", failureErr)
		}

		if attempts >= LockoutThreshold {
			ctxutil.GetLogger(context).Warn("account_locked",
				"account_id", account.ID,
				"username", account.Username,
				"attempts", attempts,
			)
		}

		return nil, apperr.InvalidCredentials()
	}

	if err := service.repository.RecordSuccess(context, account.ID); err != nil {
		return nil, fmt.Errorf("account_service_record_success_failed: %w", err)
	}

	now := time.Now()
	account.RecordSuccess(now)

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		account.ID, account.Username, string(account.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("account_service_token_generation_failed: %w", err)
	}

	return &AuthSession{
		AccessToken: accessToken,
		ExpiresIn:   constants.AccessTokenTTL,
		Account:     account,
	}, nil
}

// # Retrieval & Profile Updates

/*
Get retrieves a single account by its ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Account: Loaded entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Get(context context.Context, id string) (*Account, error) {
	return service.repository.FindByID(context, id)
}

// UpdateInput holds the optional profile fields of a partial update.
// Nil pointers leave the current value untouched.
type UpdateInput struct {
	Username *string
	Email    *string
	Name     *string
	Age      *int
	Role     *string
	Metadata map[string]any
}

/*
Update applies a partial profile update to an existing account.

Description: Re-validates every changed field. Changing username or email
re-checks uniqueness atomically with the update itself, excluding the
account's own prior value.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Account: Updated entity
  - error: apperr.ValidationError, apperr.NotFound or uniqueness conflicts
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Account, error) {

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if input.Username != nil {
		validator.Required(FieldUsername, *input.Username).
			Username(FieldUsername, *input.Username)
		account.Username = *input.Username
	}
	if input.Email != nil {
		if *input.Email != "" {
			validator.Email(FieldEmail, *input.Email)
		}
		account.Email = normalizeEmail(input.Email)
	}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).
			MaxLen(FieldName, *input.Name, 100)
		account.Name = *input.Name
	}
	if input.Age != nil {
		validator.Range(FieldAge, *input.Age, 0, 150)
		account.Age = input.Age
	}
	if input.Role != nil {
		validator.OneOf(FieldRole, *input.Role,
			string(sec.RoleAdmin), string(sec.RoleUser), string(sec.RoleGuest))
		account.Role = sec.Role(*input.Role)
	}
	if input.Metadata != nil {
		account.Metadata = input.Metadata
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, account); err != nil {
		return nil, err
	}

	return account, nil
}

/*
Delete soft-deletes an account by moving it to the terminal Deleted status.

Description: The stored record is retained; the username and email stay
reserved. Deleting an already deleted account reports NotFound.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repository.SoftDelete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Info("account_deleted", "account_id", id)
	return nil
}

// # Credential Management

/*
ChangePassword allows an account holder to rotate their own credentials.

Description: Verifies the current password before allowing the change. The
stored hash is untouched when verification fails.

Parameters:
  - context: context.Context
  - id: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: apperr.InvalidCredentials, apperr.ValidationError or storage failures
*/
func (service *Service) ChangePassword(context context.Context, id, currentPassword, newPassword string) error {

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, account.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	validator := &validate.Validator{}
	validator.Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, 8)
	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_change_password_hash_failed: %w", err)
	}

	if err := service.repository.UpdatePassword(context, id, hashedPassword); err != nil {
		return fmt.Errorf("account_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
ResetPassword sets a new password without knowledge of the old one.

Description: Administrative recovery operation. Also clears the failed-login
counter so a locked-out holder can log back in after an admin unlock.

Parameters:
  - context: context.Context
  - id: string
  - newPassword: string
  - actorRole: sec.Role

Returns:
  - error: apperr.Forbidden, apperr.ValidationError, apperr.NotFound or storage failures
*/
func (service *Service) ResetPassword(context context.Context, id, newPassword string, actorRole sec.Role) error {

	if err := requireAdmin(actorRole); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, 8)
	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_reset_password_hash_failed: %w", err)
	}

	if err := service.repository.ResetCredentials(context, id, hashedPassword); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Info("account_password_reset", "account_id", id)
	return nil
}

// # Lifecycle & Permissions

/*
SetStatus transitions an account to a new lifecycle status.

Description: Admin-only. Unlocking (transition to Active) clears the
failed-login counter. Deleted is terminal; transitions out of it are illegal.

Parameters:
  - context: context.Context
  - id: string
  - newStatus: Status
  - actorRole: sec.Role

Returns:
  - error: apperr.Forbidden, apperr.InvalidTransition, apperr.NotFound or storage failures
*/
func (service *Service) SetStatus(context context.Context, id string, newStatus Status, actorRole sec.Role) error {

	if err := requireAdmin(actorRole); err != nil {
		return err
	}

	if !newStatus.Valid() {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Must be one of: active, inactive, suspended, deleted",
		})
	}

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if !account.Status.CanTransitionTo(newStatus) {
		return apperr.InvalidTransition("Deleted accounts cannot change status")
	}

	if err := service.repository.SetStatus(context, id, newStatus); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Info("account_status_changed",
		"account_id", id,
		"from", account.Status,
		"to", newStatus,
	)

	return nil
}

/*
AddPermission grants a permission string to an account.

Description: Admin-only. Granting an already held permission is a no-op.

Parameters:
  - context: context.Context
  - id: string
  - permission: string
  - actorRole: sec.Role

Returns:
  - error: apperr.Forbidden, apperr.NotFound or storage failures
*/
func (service *Service) AddPermission(context context.Context, id, permission string, actorRole sec.Role) error {

	if err := requireAdmin(actorRole); err != nil {
		return err
	}
	if permission == "" {
		return validate.RequiredError(FieldPermission, "is required")
	}

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if account.HasPermission(permission) {
		return nil
	}
	account.AddPermission(permission)

	return service.repository.SetPermissions(context, id, account.Permissions)
}

/*
RemovePermission revokes a permission string from an account.

Description: Admin-only. Revoking an absent permission is a no-op.

Parameters:
  - context: context.Context
  - id: string
  - permission: string
  - actorRole: sec.Role

Returns:
  - error: apperr.Forbidden, apperr.NotFound or storage failures
*/
func (service *Service) RemovePermission(context context.Context, id, permission string, actorRole sec.Role) error {

	if err := requireAdmin(actorRole); err != nil {
		return err
	}

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if !account.HasPermission(permission) {
		return nil
	}
	account.RemovePermission(permission)

	return service.repository.SetPermissions(context, id, account.Permissions)
}

// requireAdmin gates administrative operations on the actor's role.
func requireAdmin(actorRole sec.Role) error {
	if !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("Administrator role required")
	}
	return nil
}
