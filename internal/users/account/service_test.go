// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package account_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/internal/users/account"
	"github.com/identra/identra/pkg/pointer"
)

// # Test Doubles

// fakeRepository is an in-memory [account.Repository] mirroring the atomicity
// semantics of the PostgreSQL implementation.
type fakeRepository struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{accounts: make(map[string]*account.Account)}
}

func cloneAccount(entity *account.Account) *account.Account {
	clone := *entity
	clone.Permissions = append([]string(nil), entity.Permissions...)
	return &clone
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return cloneAccount(entity), nil
}

func (repo *fakeRepository) FindByUsername(_ context.Context, username string) (*account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, entity := range repo.accounts {
		if entity.Username == username {
			return cloneAccount(entity), nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeRepository) FindActiveByUsername(_ context.Context, username string) (*account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, entity := range repo.accounts {
		if entity.Username == username && entity.Status != account.StatusDeleted {
			return cloneAccount(entity), nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeRepository) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, entity := range repo.accounts {
		if entity.Email != nil && *entity.Email == email {
			return cloneAccount(entity), nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *fakeRepository) Create(_ context.Context, entity *account.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.accounts {
		if existing.Username == entity.Username {
			return apperr.DuplicateUsername()
		}
		if entity.Email != nil && existing.Email != nil && *existing.Email == *entity.Email {
			return apperr.DuplicateEmail()
		}
	}

	entity.CreatedAt = time.Now()
	entity.UpdatedAt = entity.CreatedAt
	repo.accounts[entity.ID] = cloneAccount(entity)
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, entity *account.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.accounts[entity.ID]
	if !ok {
		return apperr.NotFound("Account")
	}

	for id, existing := range repo.accounts {
		if id == entity.ID {
			continue
		}
		if existing.Username == entity.Username {
			return apperr.DuplicateUsername()
		}
		if entity.Email != nil && existing.Email != nil && *existing.Email == *entity.Email {
			return apperr.DuplicateEmail()
		}
	}

	updated := cloneAccount(entity)
	updated.PasswordHash = stored.PasswordHash
	updated.UpdatedAt = time.Now()
	repo.accounts[entity.ID] = updated
	return nil
}

func (repo *fakeRepository) UpdatePassword(_ context.Context, id, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	entity.PasswordHash = newHash
	return nil
}

func (repo *fakeRepository) ResetCredentials(_ context.Context, id, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	entity.PasswordHash = newHash
	entity.LoginAttempts = 0
	return nil
}

func (repo *fakeRepository) RecordFailure(_ context.Context, id string) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return 0, apperr.NotFound("Account")
	}

	entity.LoginAttempts++
	if entity.LoginAttempts >= account.LockoutThreshold {
		entity.Status = account.StatusSuspended
	}
	return entity.LoginAttempts, nil
}

func (repo *fakeRepository) RecordSuccess(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}

	now := time.Now()
	entity.LoginAttempts = 0
	entity.LastLogin = &now
	return nil
}

func (repo *fakeRepository) SetStatus(_ context.Context, id string, status account.Status) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}

	entity.Status = status
	if status == account.StatusActive {
		entity.LoginAttempts = 0
	}
	return nil
}

func (repo *fakeRepository) SetPermissions(_ context.Context, id string, permissions []string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	entity.Permissions = append([]string(nil), permissions...)
	return nil
}

func (repo *fakeRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entity, ok := repo.accounts[id]
	if !ok || entity.Status == account.StatusDeleted {
		return apperr.NotFound("Account")
	}
	entity.Status = account.StatusDeleted
	return nil
}

// fakeTokenProvider issues predictable tokens without any signing.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(_, username, _ string, _ time.Duration) (string, error) {
	return "token-for-" + username, nil
}

// # Helpers

func newTestService() (*account.Service, *fakeRepository) {
	repository := newFakeRepository()
	return account.NewService(repository, fakeTokenProvider{}), repository
}

func mustCreate(t *testing.T, service *account.Service, input account.CreateInput) *account.Account {
	t.Helper()
	created, err := service.Create(context.Background(), input)
	require.NoError(t, err)
	return created
}

func validInput() account.CreateInput {
	return account.CreateInput{
		Username: "john_doe",
		Email:    pointer.To("john@example.com"),
		Password: "hunter2hunter2",
		Name:     "John Doe",
		Age:      pointer.To(30),
	}
}

// # Creation

/*
TestService_Create applies defaults and never exposes the plaintext.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService()

	created := mustCreate(t, service, validInput())

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "john_doe", created.Username)
	assert.Equal(t, sec.RoleUser, created.Role)
	assert.Equal(t, account.StatusActive, created.Status)
	assert.Zero(t, created.LoginAttempts)
	assert.Empty(t, created.Permissions)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter2hunter2", created.PasswordHash))
}

/*
TestService_Create_ValidationErrors rejects each field constraint violation
before any persistence mutation.
*/
func TestService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *account.CreateInput)
		field  string
	}{
		{"short_username", func(i *account.CreateInput) { i.Username = "ab" }, account.FieldUsername},
		{"illegal_username", func(i *account.CreateInput) { i.Username = "john-doe!" }, account.FieldUsername},
		{"bad_email", func(i *account.CreateInput) { i.Email = pointer.To("not-an-email") }, account.FieldEmail},
		{"short_password", func(i *account.CreateInput) { i.Password = "short" }, account.FieldPassword},
		{"empty_name", func(i *account.CreateInput) { i.Name = "" }, account.FieldName},
		{"negative_age", func(i *account.CreateInput) { i.Age = pointer.To(-1) }, account.FieldAge},
		{"ancient_age", func(i *account.CreateInput) { i.Age = pointer.To(151) }, account.FieldAge},
		{"unknown_role", func(i *account.CreateInput) { i.Role = "superuser" }, account.FieldRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repository := newTestService()

			input := validInput()
			tt.mutate(&input)

			_, err := service.Create(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)

			// Nothing was persisted
			assert.Empty(t, repository.accounts)
		})
	}
}

/*
TestService_Create_DuplicateUsername leaves the first account untouched.
*/
func TestService_Create_DuplicateUsername(t *testing.T) {
	service, _ := newTestService()

	first := mustCreate(t, service, validInput())

	duplicate := validInput()
	duplicate.Email = pointer.To("other@example.com")
	_, err := service.Create(context.Background(), duplicate)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateUsername))

	// First account is unaffected
	kept, err := service.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Username, kept.Username)
}

// # Authentication & Lockout

/*
TestService_Authenticate_Success resets the counter and issues a token.
*/
func TestService_Authenticate_Success(t *testing.T) {
	service, repository := newTestService()
	created := mustCreate(t, service, validInput())

	// Seed some prior failures
	_, err := repository.RecordFailure(context.Background(), created.ID)
	require.NoError(t, err)

	session, err := service.Authenticate(context.Background(), "john_doe", "hunter2hunter2")
	require.NoError(t, err)

	assert.Equal(t, "token-for-john_doe", session.AccessToken)
	assert.Zero(t, session.Account.LoginAttempts)
	assert.NotNil(t, session.Account.LastLogin)

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.LoginAttempts)
}

/*
TestService_Authenticate_LockoutFlow walks the full state machine: five bad
attempts suspend the account, the crossing call still reports bad credentials,
and the lock applies to subsequent calls before the credential check.
*/
func TestService_Authenticate_LockoutFlow(t *testing.T) {
	service, _ := newTestService()
	created := mustCreate(t, service, validInput())

	for attempt := 1; attempt <= account.LockoutThreshold; attempt++ {
		_, err := service.Authenticate(context.Background(), "john_doe", "wrong-password")
		require.Error(t, err)

		// Even the call that crosses the threshold reports bad credentials
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCreds),
			"attempt %d must report invalid credentials", attempt)
	}

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusSuspended, stored.Status)
	assert.Equal(t, account.LockoutThreshold, stored.LoginAttempts)

	// The lock rejects before the credential check, even with the right password
	_, err = service.Authenticate(context.Background(), "john_doe", "hunter2hunter2")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountLocked))

	// A locked rejection never counts another attempt
	stored, err = service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, account.LockoutThreshold, stored.LoginAttempts)
}

/*
TestService_Authenticate_UnknownOrDeleted surfaces NotFound for usernames
that do not resolve to an authenticatable account.
*/
func TestService_Authenticate_UnknownOrDeleted(t *testing.T) {
	service, _ := newTestService()
	created := mustCreate(t, service, validInput())

	_, err := service.Authenticate(context.Background(), "nobody", "whatever-pass")
	assert.True(t, apperr.IsNotFound(err))

	// Soft-deleted accounts are invisible to authentication
	require.NoError(t, service.Delete(context.Background(), created.ID))
	_, err = service.Authenticate(context.Background(), "john_doe", "hunter2hunter2")
	assert.True(t, apperr.IsNotFound(err))
}

// # Credentials

/*
TestService_ChangePassword verifies the old password gate and the rotation.
*/
func TestService_ChangePassword(t *testing.T) {
	service, repository := newTestService()
	created := mustCreate(t, service, validInput())
	originalHash := repository.accounts[created.ID].PasswordHash

	// Wrong old password: rejected, stored hash unchanged
	err := service.ChangePassword(context.Background(), created.ID, "wrong-old", "new-password-123")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCreds))
	assert.Equal(t, originalHash, repository.accounts[created.ID].PasswordHash)

	// Weak new password: rejected, stored hash unchanged
	err = service.ChangePassword(context.Background(), created.ID, "hunter2hunter2", "short")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, originalHash, repository.accounts[created.ID].PasswordHash)

	// Correct rotation
	err = service.ChangePassword(context.Background(), created.ID, "hunter2hunter2", "new-password-123")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("new-password-123", repository.accounts[created.ID].PasswordHash))
}

/*
TestService_ResetPassword verifies the admin-only recovery path.
*/
func TestService_ResetPassword(t *testing.T) {
	service, repository := newTestService()
	created := mustCreate(t, service, validInput())
	repository.accounts[created.ID].LoginAttempts = 3

	// Non-admin actors are rejected
	err := service.ResetPassword(context.Background(), created.ID, "recovered-pass-1", sec.RoleUser)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	// Admin reset rotates the hash and clears the counter
	err = service.ResetPassword(context.Background(), created.ID, "recovered-pass-1", sec.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("recovered-pass-1", repository.accounts[created.ID].PasswordHash))
	assert.Zero(t, repository.accounts[created.ID].LoginAttempts)
}

// # Lifecycle

/*
TestService_SetStatus verifies role gating, the admin unlock, and the
terminal Deleted state.
*/
func TestService_SetStatus(t *testing.T) {
	service, repository := newTestService()
	created := mustCreate(t, service, validInput())

	// Suspend via the lockout path
	repository.accounts[created.ID].Status = account.StatusSuspended
	repository.accounts[created.ID].LoginAttempts = account.LockoutThreshold

	// Non-admin unlock is rejected
	err := service.SetStatus(context.Background(), created.ID, account.StatusActive, sec.RoleUser)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	// Admin unlock succeeds and clears the counter
	err = service.SetStatus(context.Background(), created.ID, account.StatusActive, sec.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, repository.accounts[created.ID].Status)
	assert.Zero(t, repository.accounts[created.ID].LoginAttempts)

	// Unknown status value is rejected
	err = service.SetStatus(context.Background(), created.ID, account.Status("archived"), sec.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Admin force-delete is a one-way door
	err = service.SetStatus(context.Background(), created.ID, account.StatusDeleted, sec.RoleAdmin)
	require.NoError(t, err)

	err = service.SetStatus(context.Background(), created.ID, account.StatusActive, sec.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))
}

/*
TestService_Delete soft-deletes while retaining the record.
*/
func TestService_Delete(t *testing.T) {
	service, _ := newTestService()
	created := mustCreate(t, service, validInput())

	require.NoError(t, service.Delete(context.Background(), created.ID))

	// The record is retained and still resolvable by ID
	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusDeleted, stored.Status)

	// Deleting twice reports NotFound
	err = service.Delete(context.Background(), created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

// # Permissions

/*
TestService_Permissions verifies admin gating and idempotent grant/revoke.
*/
func TestService_Permissions(t *testing.T) {
	service, repository := newTestService()
	created := mustCreate(t, service, validInput())

	// Non-admin actors are rejected
	err := service.AddPermission(context.Background(), created.ID, "reports:read", sec.RoleUser)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	// Granting twice yields a set of size 1
	require.NoError(t, service.AddPermission(context.Background(), created.ID, "reports:read", sec.RoleAdmin))
	require.NoError(t, service.AddPermission(context.Background(), created.ID, "reports:read", sec.RoleAdmin))
	assert.Equal(t, []string{"reports:read"}, repository.accounts[created.ID].Permissions)

	// Revoking an absent permission is a no-op
	require.NoError(t, service.RemovePermission(context.Background(), created.ID, "does-not-exist", sec.RoleAdmin))
	assert.Len(t, repository.accounts[created.ID].Permissions, 1)

	require.NoError(t, service.RemovePermission(context.Background(), created.ID, "reports:read", sec.RoleAdmin))
	assert.Empty(t, repository.accounts[created.ID].Permissions)
}

// # Profile Updates

/*
TestService_Update re-validates changed fields and re-checks uniqueness
excluding the account's own prior value.
*/
func TestService_Update(t *testing.T) {
	service, _ := newTestService()
	created := mustCreate(t, service, validInput())

	other := validInput()
	other.Username = "jane_doe"
	other.Email = pointer.To("jane@example.com")
	mustCreate(t, service, other)

	// Partial update touches only the provided fields
	updated, err := service.Update(context.Background(), created.ID, account.UpdateInput{
		Name: pointer.To("Johnny Doe"),
		Age:  pointer.To(31),
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, "john_doe", updated.Username)

	// Changed fields are re-validated
	_, err = service.Update(context.Background(), created.ID, account.UpdateInput{
		Username: pointer.To("x"),
	})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Keeping the current username is not a conflict with itself
	_, err = service.Update(context.Background(), created.ID, account.UpdateInput{
		Username: pointer.To("john_doe"),
	})
	require.NoError(t, err)

	// Taking another account's username is a conflict
	_, err = service.Update(context.Background(), created.ID, account.UpdateInput{
		Username: pointer.To("jane_doe"),
	})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateUsername))
}
