package store

import (
	"errors"

	"mediauser/internal/domain"
)

var (
	// ErrUserNameTaken reports a uniqueness violation on insert. It is
	// store-agnostic: implementations translate their driver's duplicate-key
	// error and never leak driver codes past this package.
	ErrUserNameTaken = errors.New("user name already taken")

	// ErrUserNotFound reports that no record exists for the given id.
	ErrUserNotFound = errors.New("user not found")
)

// Store defines persistence operations for user records.
type Store interface {
	// CreateUser inserts a new record. Fails with ErrUserNameTaken when the
	// user name already exists.
	CreateUser(user domain.User) error
	GetUserByName(name string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// GetList reads the named list without loading the rest of the record.
	// Fails with ErrUserNotFound when no record exists for id.
	GetList(id string, kind domain.ListKind) ([]string, error)

	// AddListItem atomically adds itemID to the named list unless already
	// present (set semantics) and returns the updated list.
	AddListItem(id string, kind domain.ListKind, itemID string) ([]string, error)
	// RemoveListItem atomically removes itemID from the named list. Removing
	// an absent item is a no-op, not an error.
	RemoveListItem(id string, kind domain.ListKind, itemID string) ([]string, error)

	Close() error
}
