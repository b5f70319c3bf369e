package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediauser/internal/domain"
	"mediauser/internal/store"
	"mediauser/pkg/auth"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	Store       store.Store
}

// App is the core application service wiring account and list operations
// onto the store. One App owns the process-wide store handle; it is created
// once at startup and injected where needed.
type App struct {
	store store.Store
}

// New constructs the application. A pre-built Store (tests, local runs)
// takes precedence over DatabaseURL.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	return &App{store: dataStore}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// Register creates a new account after validating the password confirmation.
func (a *App) Register(userName, password, password2 string) (string, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return "", ErrMissingFields
	}
	if password != password2 {
		return "", ErrPasswordMismatch
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		PasswordHash: passwordHash,
		Favourites:   []string{},
		History:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrUserNameTaken) {
			return "", ErrUserNameTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return fmt.Sprintf("User %s successfully registered", userName), nil
}

// Authenticate validates credentials and returns the matched user.
func (a *App) Authenticate(userName, password string) (domain.User, error) {
	user, ok, err := a.store.GetUserByName(strings.TrimSpace(userName))
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID resolves a user record, used by the token middleware.
func (a *App) GetUserByID(id string) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// Favourites returns the user's favourites list.
func (a *App) Favourites(id string) ([]string, error) {
	return a.getList(id, domain.ListFavourites)
}

// History returns the user's history list.
func (a *App) History(id string) ([]string, error) {
	return a.getList(id, domain.ListHistory)
}

// AddFavourite adds itemID to favourites if absent, capped at 50 entries.
func (a *App) AddFavourite(id, itemID string) ([]string, error) {
	return a.addListItem(id, domain.ListFavourites, itemID)
}

// RemoveFavourite removes itemID from favourites; absent items are a no-op.
func (a *App) RemoveFavourite(id, itemID string) ([]string, error) {
	return a.removeListItem(id, domain.ListFavourites, itemID)
}

// AddHistory adds itemID to history if absent, capped at 50 entries.
func (a *App) AddHistory(id, itemID string) ([]string, error) {
	return a.addListItem(id, domain.ListHistory, itemID)
}

// RemoveHistory removes itemID from history; absent items are a no-op.
func (a *App) RemoveHistory(id, itemID string) ([]string, error) {
	return a.removeListItem(id, domain.ListHistory, itemID)
}

func (a *App) getList(id string, kind domain.ListKind) ([]string, error) {
	list, err := a.store.GetList(id, kind)
	if err != nil {
		return nil, a.listError(kind, err, "fetch")
	}
	return list, nil
}

func (a *App) addListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	user, err := a.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	// The capacity check and the update are separate statements; two
	// concurrent adds can both pass the check and leave the list one entry
	// over the cap. The update itself is atomic.
	if len(user.List(kind)) >= domain.MaxListEntries {
		return nil, ErrListFull
	}
	list, err := a.store.AddListItem(id, kind, itemID)
	if err != nil {
		return nil, a.listError(kind, err, "update")
	}
	return list, nil
}

func (a *App) removeListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	list, err := a.store.RemoveListItem(id, kind, itemID)
	if err != nil {
		return nil, a.listError(kind, err, "update")
	}
	return list, nil
}

func (a *App) listError(kind domain.ListKind, err error, op string) error {
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s %s: %w", op, kind, err)
}
