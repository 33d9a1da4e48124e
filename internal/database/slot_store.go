package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSlotEmpty is returned by Load when nothing has been stored under a key.
var ErrSlotEmpty = errors.New("slot is empty")

// SlotStore is a durable key-value store with one row per named slot.
type SlotStore struct {
	db *gorm.DB
}

func NewSlotStore(db *gorm.DB) *SlotStore {
	return &SlotStore{db: db}
}

// Load returns the raw contents of the slot.
func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var slot model.Slot
	err := s.db.WithContext(ctx).Where(&model.Slot{Key: key}).Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("database: load slot %q: %w", key, err)
	}
	return []byte(slot.Value), nil
}

// Save writes data to the slot, replacing previous contents.
func (s *SlotStore) Save(ctx context.Context, key string, data []byte) error {
	slot := model.Slot{Key: key, Value: datatypes.JSON(data)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("database: save slot %q: %w", key, err)
	}
	return nil
}
