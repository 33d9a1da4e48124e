package model

import (
	"time"

	"gorm.io/datatypes"
)

// Slot is one named entry of the durable key-value store. The record list
// lives in a single slot as a JSON array.
type Slot struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}
