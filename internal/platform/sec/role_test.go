// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/identra/identra/internal/platform/sec"
)

/*
TestRole_Valid verifies the closed role set.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleGuest.Valid())
	assert.False(t, sec.Role("superuser").Valid())
	assert.False(t, sec.Role("").Valid())
}

/*
TestRole_AtLeast verifies the role hierarchy comparisons.
*/
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		actor    sec.Role
		required sec.Role
		allowed  bool
	}{
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_meets_user", sec.RoleAdmin, sec.RoleUser, true},
		{"user_meets_user", sec.RoleUser, sec.RoleUser, true},
		{"user_below_admin", sec.RoleUser, sec.RoleAdmin, false},
		{"guest_below_user", sec.RoleGuest, sec.RoleUser, false},
		{"unknown_below_guest", sec.Role("x"), sec.RoleGuest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.actor.AtLeast(tt.required))
		})
	}
}
