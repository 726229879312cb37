package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ConflictQuery describes a candidate interval for one staff member.
// ExcludeID skips the reservation being rescheduled.
type ConflictQuery struct {
	StaffID   uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	ExcludeID *uuid.UUID
}

// ConflictsWith reports whether r blocks the candidate in q.
func (q ConflictQuery) ConflictsWith(r Reservation) bool {
	if r.StaffID != q.StaffID {
		return false
	}
	if q.ExcludeID != nil && r.ID == *q.ExcludeID {
		return false
	}
	if !IsActive(r.Status) {
		return false
	}
	return Overlaps(q.StartTime, q.EndTime, r.StartTime, r.EndTime)
}

// HasConflict is the in-memory form of the conflict check, used where the
// active reservations of a day are already loaded.
func HasConflict(existing []Reservation, q ConflictQuery) bool {
	for _, r := range existing {
		if q.ConflictsWith(r) {
			return true
		}
	}
	return false
}
