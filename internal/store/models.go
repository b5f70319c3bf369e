package store

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"mediauser/internal/domain"
)

// GORM model used for persistence. Favourites and history are stored as
// jsonb arrays so each list mutation is a single document-style update.
type UserModel struct {
	ID           string         `gorm:"primaryKey"`
	UserName     string         `gorm:"uniqueIndex;not null"`
	PasswordHash string         `gorm:"not null"`
	Favourites   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	History      datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time
}

func userToModel(u domain.User) (UserModel, error) {
	favourites, err := encodeList(u.Favourites)
	if err != nil {
		return UserModel{}, fmt.Errorf("encode favourites: %w", err)
	}
	history, err := encodeList(u.History)
	if err != nil {
		return UserModel{}, fmt.Errorf("encode history: %w", err)
	}
	return UserModel{
		ID:           u.ID,
		UserName:     u.UserName,
		PasswordHash: u.PasswordHash,
		Favourites:   favourites,
		History:      history,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

func userFromModel(m UserModel) (domain.User, error) {
	favourites, err := decodeList(m.Favourites)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode favourites: %w", err)
	}
	history, err := decodeList(m.History)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode history: %w", err)
	}
	return domain.User{
		ID:           m.ID,
		UserName:     m.UserName,
		PasswordHash: m.PasswordHash,
		Favourites:   favourites,
		History:      history,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func encodeList(items []string) (datatypes.JSON, error) {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeList(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
