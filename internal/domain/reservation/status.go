package reservation

import (
	"time"

	"github.com/google/uuid"
)

// ===============================
// Reservation Status
// ===============================

type StatusName string

const (
	StatusPending   StatusName = "pending"
	StatusConfirmed StatusName = "confirmed"
	StatusCancelled StatusName = "cancelled"
	StatusCompleted StatusName = "completed"
	StatusNoShow    StatusName = "no_show"
)

// ActiveStatuses are the statuses that occupy a staff member's time.
var ActiveStatuses = []StatusName{StatusPending, StatusConfirmed}

// Status is a closed set: Pending, Confirmed, Cancelled, Completed and
// NoShow. Each variant carries the metadata of the transitions that led
// to it.
type Status interface {
	Name() StatusName
	isStatus()
}

// Stamp records who performed a transition and when.
type Stamp struct {
	At time.Time
	By uuid.UUID
}

type Pending struct{}

type Confirmed struct {
	Stamp
}

type Cancelled struct {
	Stamp
	Reason string
	// Confirmed is set when the reservation was confirmed before it was
	// cancelled.
	Confirmed *Stamp
}

type Completed struct {
	Stamp
	Confirmed Stamp
}

type NoShow struct {
	Stamp
	Confirmed Stamp
}

func (Pending) Name() StatusName   { return StatusPending }
func (Confirmed) Name() StatusName { return StatusConfirmed }
func (Cancelled) Name() StatusName { return StatusCancelled }
func (Completed) Name() StatusName { return StatusCompleted }
func (NoShow) Name() StatusName    { return StatusNoShow }

func (Pending) isStatus()   {}
func (Confirmed) isStatus() {}
func (Cancelled) isStatus() {}
func (Completed) isStatus() {}
func (NoShow) isStatus()    {}

// IsActive reports whether a reservation in status s blocks its slot.
func IsActive(s Status) bool {
	switch s.(type) {
	case Pending, Confirmed:
		return true
	case Cancelled, Completed, NoShow:
		return false
	}
	return false
}

// IsTerminal reports whether s admits no further change.
func IsTerminal(s Status) bool {
	switch s.(type) {
	case Cancelled, Completed:
		return true
	case Pending, Confirmed, NoShow:
		return false
	}
	return false
}

// ParseStatusName validates a status name received from outside the core.
func ParseStatusName(s string) (StatusName, bool) {
	switch StatusName(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return StatusName(s), true
	}
	return "", false
}
