package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the services.
var (
	// ErrNoSession is returned by operations that require an authenticated identity.
	ErrNoSession = errors.New("no active session")
	// ErrLastFolder is returned when deleting the only remaining folder.
	ErrLastFolder = errors.New("cannot delete the last folder")
)

// AuthError covers bad credentials, missing sessions and remote auth failures.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError covers bulk-load failures.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError covers any single create, update or delete failure.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write: %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
