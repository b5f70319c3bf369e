package app

import (
	"errors"
	"fmt"
	"testing"

	"mediauser/internal/domain"
	"mediauser/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := New(Config{Store: mem})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func registeredUserID(t *testing.T, a *App, mem *store.MemoryStore, name string) string {
	t.Helper()
	if _, err := a.Register(name, "pw1", "pw1"); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	user, ok, err := mem.GetUserByName(name)
	if err != nil || !ok {
		t.Fatalf("lookup %s: ok=%v err=%v", name, ok, err)
	}
	return user.ID
}

func TestRegisterPasswordMismatchPerformsNoWrite(t *testing.T) {
	a, mem := newTestApp(t)
	_, err := a.Register("alice", "pw1", "pw2")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, ok, _ := mem.GetUserByName("alice"); ok {
		t.Fatalf("mismatched registration must not create a record")
	}
}

func TestRegisterRequiresUserNameAndPassword(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("", "pw1", "pw1"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("empty name: expected ErrMissingFields, got %v", err)
	}
	if _, err := a.Register("alice", "", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("empty password: expected ErrMissingFields, got %v", err)
	}
}

func TestRegisterDuplicateUserName(t *testing.T) {
	a, mem := newTestApp(t)
	msg, err := a.Register("alice", "pw1", "pw1")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if msg != "User alice successfully registered" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if _, err := a.Register("alice", "other", "other"); !errors.Is(err, ErrUserNameTaken) {
		t.Fatalf("expected ErrUserNameTaken, got %v", err)
	}
	user, ok, _ := mem.GetUserByName("alice")
	if !ok {
		t.Fatalf("first record missing")
	}
	if user.PasswordHash == "pw1" {
		t.Fatalf("password stored as plaintext")
	}
}

func TestAuthenticate(t *testing.T) {
	a, mem := newTestApp(t)
	id := registeredUserID(t, a, mem, "alice")

	user, err := a.Authenticate("alice", "pw1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != id {
		t.Fatalf("authenticated wrong user: got %q want %q", user.ID, id)
	}

	if _, err := a.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate("nobody", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAddFavouriteIsIdempotent(t *testing.T) {
	a, mem := newTestApp(t)
	id := registeredUserID(t, a, mem, "alice")

	list, err := a.AddFavourite(id, "movie42")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(list) != 1 || list[0] != "movie42" {
		t.Fatalf("unexpected list: %v", list)
	}
	list, err = a.AddFavourite(id, "movie42")
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("repeat add changed length: %v", list)
	}
}

func TestRemoveFavouriteAbsentIsNoop(t *testing.T) {
	a, mem := newTestApp(t)
	id := registeredUserID(t, a, mem, "alice")

	if _, err := a.AddFavourite(id, "movie42"); err != nil {
		t.Fatalf("add: %v", err)
	}
	list, err := a.RemoveFavourite(id, "never-added")
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("absent removal changed list: %v", list)
	}
	list, err = a.RemoveFavourite(id, "movie42")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}

func TestListCapRejectsFiftyFirstEntry(t *testing.T) {
	a, mem := newTestApp(t)
	id := registeredUserID(t, a, mem, "alice")

	for i := 0; i < domain.MaxListEntries; i++ {
		if _, err := a.AddHistory(id, fmt.Sprintf("ep%d", i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if _, err := a.AddHistory(id, "one-too-many"); !errors.Is(err, ErrListFull) {
		t.Fatalf("expected ErrListFull, got %v", err)
	}
	list, err := a.History(id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(list) != domain.MaxListEntries {
		t.Fatalf("list length changed: %d", len(list))
	}
	// Capacity is checked before the set-insert, so a duplicate add at the
	// cap still fails.
	if _, err := a.AddHistory(id, "ep0"); !errors.Is(err, ErrListFull) {
		t.Fatalf("expected ErrListFull for existing entry at cap, got %v", err)
	}
}

func TestListOpsForUnknownUser(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Favourites("ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("get: expected ErrUserNotFound, got %v", err)
	}
	if _, err := a.AddFavourite("ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("add: expected ErrUserNotFound, got %v", err)
	}
	if _, err := a.RemoveHistory("ghost", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("remove: expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	a, mem := newTestApp(t)
	id := registeredUserID(t, a, mem, "alice")
	user, err := a.GetUserByID(id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, err := a.GetUserByID("ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
