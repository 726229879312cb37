package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours narrows a staff member's day inside the salon window.
type WorkingHours struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_working_hours_staff_weekday;not null" json:"staff_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_staff_weekday" json:"weekday"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
