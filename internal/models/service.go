package models

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	DurationMin int    `json:"duration_min"`
	// Price in minor currency units.
	Price    int64  `json:"price"`
	Active   bool   `gorm:"default:true" json:"active"`
	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
