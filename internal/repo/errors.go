// Package repo defines the credential store contract shared by the
// postgres and memory implementations.
package repo

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is authoritative: the store's uniqueness enforcement
	// decides duplicate races, not any handler-level pre-check.
	ErrUsernameTaken = errors.New("username already taken")
)
