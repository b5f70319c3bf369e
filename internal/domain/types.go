package domain

import "time"

// ListKind selects one of the two per-user lists.
type ListKind string

const (
	ListFavourites ListKind = "favourites"
	ListHistory    ListKind = "history"
)

// MaxListEntries caps both favourites and history.
const MaxListEntries = 50

// User is a single account record. Favourites and history hold external
// item identifiers (e.g. media ids) with set semantics.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	PasswordHash string    `json:"-"`
	Favourites   []string  `json:"favourites"`
	History      []string  `json:"history"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// List returns the named list of the user.
func (u User) List(kind ListKind) []string {
	if kind == ListHistory {
		return u.History
	}
	return u.Favourites
}
