// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package sec

// # Account Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access: unlock, force-delete, permission grants
	RoleAdmin Role = "admin"

	// Default role for standard registered accounts
	RoleUser Role = "user"

	// Read-only visitor account
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleUser:
		return 20
	case RoleGuest:
		return 10
	default:
		return 0
	}
}
