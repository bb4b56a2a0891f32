package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrLockTimeout is returned when a row lock could not be acquired
	// within the transaction's lock timeout. Safe for callers to retry.
	ErrLockTimeout = errors.New("row lock acquisition timed out")
)
