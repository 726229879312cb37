package models

import (
	"time"

	"github.com/google/uuid"
)

type Salon struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Slug     string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string    `gorm:"size:20" json:"phone"`
	Address  string    `gorm:"size:255" json:"address"`
	Timezone string    `gorm:"size:64" json:"timezone"`

	// Operating window, "HH:MM" in the salon's timezone.
	OpenTime  string `gorm:"size:5;not null;default:'09:00'" json:"open_time"`
	CloseTime string `gorm:"size:5;not null;default:'18:00'" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
