// Package auth issues and verifies bearer tokens and owns the signup and
// login flows built on top of the user store.
package auth

import "errors"

// ErrUnauthorized covers bad credentials and unusable tokens alike so
// callers cannot tell which part was wrong.
var ErrUnauthorized = errors.New("unauthorized")

// PasswordError lists every strength rule a signup password failed.
type PasswordError struct {
	Problems []string
	err      error
}

func (e *PasswordError) Error() string { return e.err.Error() }

func (e *PasswordError) Unwrap() error { return e.err }
