package models

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	SalonID    uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	StaffID    uuid.UUID `gorm:"type:uuid;index:idx_reservations_staff_start;not null" json:"staff_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`

	StartTime time.Time `gorm:"index:idx_reservations_staff_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Notes         string `gorm:"size:500" json:"notes"`
	TotalAmount   int64  `gorm:"not null" json:"total_amount"`
	DepositAmount *int64 `json:"deposit_amount"`
	IsPaid        bool   `gorm:"not null;default:false" json:"is_paid"`

	CancellationReason *string `gorm:"size:500" json:"cancellation_reason"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	ConfirmedBy *uuid.UUID `gorm:"type:uuid" json:"confirmed_by"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy *uuid.UUID `gorm:"type:uuid" json:"cancelled_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CompletedBy *uuid.UUID `gorm:"type:uuid" json:"completed_by"`
	NoShowAt    *time.Time `json:"no_show_at"`
	NoShowBy    *uuid.UUID `gorm:"type:uuid" json:"no_show_by"`

	CreatedAt time.Time  `json:"created_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
}
