// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package account

import "time"

// # Lockout Policy

// LockoutThreshold is the number of consecutive failed authentications that
// suspends an account. The storage layer mirrors this rule inside a single
// UPDATE statement so that concurrent failures on the same account cannot
// race past the threshold.
const LockoutThreshold = 5

/*
RecordFailure applies a failed authentication attempt to the in-memory entity.

Description: Increments the attempt counter and suspends the account when the
counter reaches [LockoutThreshold]. The persisted equivalent lives in the
repository as an atomic statement; this method exists for the domain rule
itself and for tests.

Returns:
  - bool: true if this failure crossed the threshold and suspended the account
*/
func (account *Account) RecordFailure() bool {
	account.LoginAttempts++
	if account.LoginAttempts >= LockoutThreshold && account.Status != StatusSuspended {
		account.Status = StatusSuspended
		return true
	}
	return false
}

/*
RecordSuccess applies a successful authentication to the in-memory entity.

Description: Resets the attempt counter and stamps the login time. The account
status is left untouched.

Parameters:
  - loginTime: time.Time (The moment of the successful authentication)
*/
func (account *Account) RecordSuccess(loginTime time.Time) {
	account.LoginAttempts = 0
	account.LastLogin = &loginTime
}

// IsLocked reports whether the account is barred from authenticating.
// Suspended and Deleted accounts are locked; Inactive accounts may log back in.
func (account *Account) IsLocked() bool {
	return account.Status == StatusSuspended || account.Status == StatusDeleted
}
