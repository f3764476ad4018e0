// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

/*
Package account implements the user account domain of the Identra platform.

It defines the core Account entity together with the business rules that govern
its lifecycle: credential verification, failed-login lockout, the status state
machine, and per-account permission grants.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no external
dependencies and encapsulates all business rules related to user identity.

  - Entity: Account (status, role, permissions, metadata).
  - Lockout: Counter-based suspension policy (see lockout.go).
  - Service: The single writer-facing orchestrator; no other component mutates
    stored accounts directly.
*/
package account

import (
	"time"

	"github.com/identra/identra/internal/platform/sec"
	"github.com/identra/identra/pkg/slice"
)

// # Domain Entities

// Account represents a registered identity on the Identra platform.
type Account struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        *string        `json:"email,omitempty"`
	PasswordHash string         `json:"-"` // Explicitly omitted from JSON for security.
	Name         string         `json:"name"`
	Age          *int           `json:"age,omitempty"`
	Role         sec.Role       `json:"role"`
	Status       Status         `json:"status"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	// LoginAttempts counts consecutive failed authentications since the last
	// success. It only ever grows through Repository.RecordFailure so that
	// concurrent authentications cannot under-count.
	LoginAttempts int            `json:"login_attempts"`
	Permissions   []string       `json:"permissions"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// # Account Status

// Status represents the lifecycle state of an account.
type Status string

const (
	// StatusActive accounts may authenticate and appear in directory queries.
	StatusActive Status = "active"

	// StatusInactive accounts are dormant but may still authenticate back in.
	StatusInactive Status = "inactive"

	// StatusSuspended accounts are locked out after repeated failed logins
	// or by administrative action. Requires an admin unlock.
	StatusSuspended Status = "suspended"

	// StatusDeleted is terminal. The record is retained (soft delete) but the
	// account can never authenticate or transition to another status.
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change from s to target is legal.
// Deleted is a one-way door.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.Valid() {
		return false
	}
	return s != StatusDeleted
}

// # Computed Predicates

// IsActive reports whether the account is in the Active status.
func (account *Account) IsActive() bool {
	return account.Status == StatusActive
}

// IsAdmin reports whether the account carries the admin role.
func (account *Account) IsAdmin() bool {
	return account.Role == sec.RoleAdmin
}

// # Permission Set

// HasPermission reports whether the account holds the given permission.
func (account *Account) HasPermission(permission string) bool {
	for _, existing := range account.Permissions {
		if existing == permission {
			return true
		}
	}
	return false
}

// AddPermission grants a permission to the account. Adding a permission the
// account already holds is a no-op, so the slice never contains duplicates.
func (account *Account) AddPermission(permission string) {
	if account.HasPermission(permission) {
		return
	}
	account.Permissions = append(account.Permissions, permission)
}

// RemovePermission revokes a permission from the account. Removing an absent
// permission is a no-op.
func (account *Account) RemovePermission(permission string) {
	account.Permissions = slice.Filter(account.Permissions, func(existing string) bool {
		return existing != permission
	})
	if account.Permissions == nil {
		// Keep the set non-nil so persistence writes an empty array, not NULL.
		account.Permissions = []string{}
	}
}

// # Metadata

// SetMetadata stores an arbitrary value under the given key, allocating the
// map on first use.
func (account *Account) SetMetadata(key string, value any) {
	if account.Metadata == nil {
		account.Metadata = make(map[string]any)
	}
	account.Metadata[key] = value
}

// GetMetadata retrieves a metadata value. The second return reports presence.
func (account *Account) GetMetadata(key string) (any, bool) {
	value, ok := account.Metadata[key]
	return value, ok
}

// GetMetadataString retrieves a metadata value as a string, returning the
// empty string when the key is absent or holds a non-string value.
func (account *Account) GetMetadataString(key string) string {
	if value, ok := account.Metadata[key]; ok {
		if text, ok := value.(string); ok {
			return text
		}
	}
	return ""
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldAge             = "age"
	FieldRole            = "role"
	FieldStatus          = "status"
	FieldPermission      = "permission"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldAccount         = "account"
	FieldMessage         = "message"
)
