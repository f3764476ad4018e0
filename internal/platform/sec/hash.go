// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor applied to every stored credential.
// Cost 12 keeps a single verification in the hundreds of milliseconds on
// current hardware, which is the offline brute-force budget we target.
const HashCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt embeds a fresh random salt on every call, so hashing the same
// password twice produces two different hash strings.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), HashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// The comparison inside bcrypt is constant-time. A malformed or empty hash
// is reported as a mismatch, never as an error.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
