package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUserNotFound is returned when no user row matches the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when an insert collides with the unique
	// email constraint.
	ErrEmailTaken = errors.New("email already registered")
)
