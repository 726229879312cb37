package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	SalonID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	ReservationID uuid.UUID  `gorm:"type:uuid;uniqueIndex:reviews_reservation_id_key;not null" json:"reservation_id"`
	StaffID       *uuid.UUID `gorm:"type:uuid;index" json:"staff_id"`

	Rating           int  `gorm:"not null" json:"rating"`
	ServiceRating    *int `json:"service_rating"`
	StaffRating      *int `json:"staff_rating"`
	AtmosphereRating *int `json:"atmosphere_rating"`

	Comment string `gorm:"size:1000" json:"comment"`
	// Image URLs, stored as a JSON array.
	Images string `gorm:"type:text" json:"images"`

	Status string `gorm:"size:20;not null;default:'published';index" json:"status"`

	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt   *time.Time `json:"verified_at"`
	VerifiedBy   *uuid.UUID `gorm:"type:uuid" json:"verified_by"`
	HelpfulCount int64      `gorm:"not null;default:0" json:"helpful_count"`

	HiddenAt     *time.Time `json:"hidden_at"`
	HiddenBy     *uuid.UUID `gorm:"type:uuid" json:"hidden_by"`
	HiddenReason *string    `gorm:"size:500" json:"hidden_reason"`
	DeletedAt    *time.Time `json:"deleted_at"`
	DeletedBy    *uuid.UUID `gorm:"type:uuid" json:"deleted_by"`
	DeleteReason *string    `gorm:"size:500" json:"delete_reason"`

	CreatedAt time.Time  `json:"created_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
}
