package store

import (
	"slices"
	"sync"
	"time"

	"mediauser/internal/domain"
)

// MemoryStore keeps user records in-process. It mirrors GormStore semantics
// and backs tests and local runs without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User // key: user ID
	names map[string]string      // user name -> user ID
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		names: make(map[string]string),
	}
}

// CreateUser inserts a user, enforcing user name uniqueness.
func (m *MemoryStore) CreateUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.names[u.UserName]; exists {
		return ErrUserNameTaken
	}
	m.users[u.ID] = cloneUser(u)
	m.names[u.UserName] = u.ID
	return nil
}

// GetUserByName looks up a user by user name.
func (m *MemoryStore) GetUserByName(name string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.names[name]
	if !ok {
		return domain.User{}, false, nil
	}
	u, exists := m.users[id]
	return cloneUser(u), exists, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

// GetList returns a copy of the named list.
func (m *MemoryStore) GetList(id string, kind domain.ListKind) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return slices.Clone(u.List(kind)), nil
}

// AddListItem adds itemID to the list if absent.
func (m *MemoryStore) AddListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	list := u.List(kind)
	if !slices.Contains(list, itemID) {
		list = append(list, itemID)
	}
	m.setList(&u, kind, list)
	return slices.Clone(list), nil
}

// RemoveListItem removes itemID from the list if present.
func (m *MemoryStore) RemoveListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	list := u.List(kind)
	filtered := make([]string, 0, len(list))
	for _, item := range list {
		if item != itemID {
			filtered = append(filtered, item)
		}
	}
	m.setList(&u, kind, filtered)
	return slices.Clone(filtered), nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) setList(u *domain.User, kind domain.ListKind, list []string) {
	if kind == domain.ListHistory {
		u.History = list
	} else {
		u.Favourites = list
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = *u
}

func cloneUser(u domain.User) domain.User {
	u.Favourites = slices.Clone(u.Favourites)
	u.History = slices.Clone(u.History)
	return u
}
