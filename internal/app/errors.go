package app

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown user name or a wrong
	// password. One message for both so responses do not enable account
	// enumeration.
	ErrInvalidCredentials = errors.New("incorrect user name or password")

	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingFields    = errors.New("userName and password are required")
	ErrUserNameTaken    = errors.New("user name already taken")

	ErrUserNotFound = errors.New("user not found")

	// ErrListFull rejects additions once a list holds MaxListEntries items.
	// The list is left unchanged; entries are never truncated.
	ErrListFull = errors.New("list is at capacity")
)
