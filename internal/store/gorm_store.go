package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mediauser/internal/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations. Safe to call when the
// schema already exists; AutoMigrate is a no-op then.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser inserts a new user record.
func (s *GormStore) CreateUser(u domain.User) error {
	model, err := userToModel(u)
	if err != nil {
		return err
	}
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserNameTaken
		}
		return err
	}
	return nil
}

// GetUserByName looks up a user by user name.
func (s *GormStore) GetUserByName(name string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("user_name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	user, err := userFromModel(model)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	user, err := userFromModel(model)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

// GetList reads a single list column.
func (s *GormStore) GetList(id string, kind domain.ListKind) ([]string, error) {
	col, err := listColumn(kind)
	if err != nil {
		return nil, err
	}
	var model UserModel
	if err := s.db.Select(col).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	raw := model.Favourites
	if kind == domain.ListHistory {
		raw = model.History
	}
	return decodeList(raw)
}

// AddListItem appends itemID to the list unless already present, in one
// statement so concurrent adds of the same item cannot duplicate it.
func (s *GormStore) AddListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	col, err := listColumn(kind)
	if err != nil {
		return nil, err
	}
	item, err := json.Marshal(itemID)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	expr := gorm.Expr(
		fmt.Sprintf("CASE WHEN %s @> ?::jsonb THEN %s ELSE %s || ?::jsonb END", col, col, col),
		string(item), string(item),
	)
	return s.updateList(id, col, expr)
}

// RemoveListItem deletes itemID from the list. The jsonb "- text" operator
// removes every matching string element; absent items leave the list as is.
func (s *GormStore) RemoveListItem(id string, kind domain.ListKind, itemID string) ([]string, error) {
	col, err := listColumn(kind)
	if err != nil {
		return nil, err
	}
	expr := gorm.Expr(fmt.Sprintf("%s - ?::text", col), itemID)
	return s.updateList(id, col, expr)
}

func (s *GormStore) updateList(id, col string, expr clause.Expr) ([]string, error) {
	var model UserModel
	res := s.db.Model(&model).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: col}}}).
		Where("id = ?", id).
		Update(col, expr)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	raw := model.Favourites
	if col == string(domain.ListHistory) {
		raw = model.History
	}
	return decodeList(raw)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// listColumn maps a list kind to its column. Kinds are internal constants,
// never client input, but the guard keeps raw SQL construction closed.
func listColumn(kind domain.ListKind) (string, error) {
	switch kind {
	case domain.ListFavourites, domain.ListHistory:
		return string(kind), nil
	default:
		return "", fmt.Errorf("unknown list kind %q", kind)
	}
}
