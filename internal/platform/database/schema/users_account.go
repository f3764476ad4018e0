// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

// Package schema holds column-name descriptors for every persisted table.
//
// Repositories build their SQL from these descriptors so that a column rename
// is a one-line change instead of a grep across query strings.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	Name          string
	Age           string
	Password      string
	Role          string
	Status        string
	LastLoginAt   string
	LoginAttempts string
	Permissions   string
	Metadata      string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	Name:          "name",
	Age:           "age",
	Password:      "passwordhash",
	Role:          "role",
	Status:        "status",
	LastLoginAt:   "lastloginat",
	LoginAttempts: "loginattempts",
	Permissions:   "permissions",
	Metadata:      "metadata",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Name, t.Age, t.Password, t.Role,
		t.Status, t.LastLoginAt, t.LoginAttempts, t.Permissions, t.Metadata,
		t.CreatedAt, t.UpdatedAt,
	}
}
