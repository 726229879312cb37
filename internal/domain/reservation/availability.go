package reservation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/models"
)

type AvailabilityInput struct {
	SalonID   uuid.UUID
	ServiceID uuid.UUID
	// Only the calendar date of Date is used; the day is laid out in the
	// salon's timezone.
	Date time.Time
	// Duration <= 0 falls back to the service duration.
	Duration time.Duration
}

type AvailableSlot struct {
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	StaffIDs []uuid.UUID `json:"staff_ids"`
}

type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// StaffDay is one staff member's bookable window for a day.
type StaffDay struct {
	StaffID uuid.UUID
	Work    Window
	Lunch   *Window
}

// Admits reports whether [start, end) lies inside the working window and
// clear of lunch.
func (sd StaffDay) Admits(start, end time.Time) bool {
	if !sd.Work.Contains(start, end) {
		return false
	}
	return sd.Lunch == nil || !Overlaps(start, end, sd.Lunch.Start, sd.Lunch.End)
}

// AtClock places an "HH:MM" clock reading on day's calendar date.
func AtClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

// Grid splits w into consecutive slots of length d; a trailing remainder
// shorter than d is dropped.
func Grid(w Window, d time.Duration) []Window {
	if d <= 0 {
		return nil
	}
	var slots []Window
	for cur := w.Start; !cur.Add(d).After(w.End); cur = cur.Add(d) {
		slots = append(slots, Window{Start: cur, End: cur.Add(d)})
	}
	return slots
}

// StaffWindow narrows the salon window by the staff member's working
// hours. A missing row means the salon window applies; an inactive row
// means the staff member is off that day.
func StaffWindow(
	day time.Time,
	salon Window,
	staffID uuid.UUID,
	wh *models.WorkingHours,
) (StaffDay, bool) {
	sd := StaffDay{StaffID: staffID, Work: salon}
	if wh == nil {
		return sd, true
	}
	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return sd, false
	}

	start, err := AtClock(day, wh.StartTime)
	if err != nil {
		return sd, false
	}
	end, err := AtClock(day, wh.EndTime)
	if err != nil {
		return sd, false
	}
	if start.After(sd.Work.Start) {
		sd.Work.Start = start
	}
	if end.Before(sd.Work.End) {
		sd.Work.End = end
	}
	if !sd.Work.Start.Before(sd.Work.End) {
		return sd, false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, err1 := AtClock(day, wh.LunchStart)
		le, err2 := AtClock(day, wh.LunchEnd)
		if err1 == nil && err2 == nil && ls.Before(le) {
			sd.Lunch = &Window{Start: ls, End: le}
		}
	}

	return sd, true
}

// FilterSlots keeps the grid slots at least one staff member can take:
// inside their window, clear of lunch, not started before now, and not
// overlapping any of their active reservations.
func FilterSlots(
	grid []Window,
	staff []StaffDay,
	booked []Reservation,
	now time.Time,
) []AvailableSlot {
	out := make([]AvailableSlot, 0, len(grid))

	for _, slot := range grid {
		if slot.Start.Before(now) {
			continue
		}

		var free []uuid.UUID
		for _, sd := range staff {
			if !sd.Admits(slot.Start, slot.End) {
				continue
			}
			q := ConflictQuery{StaffID: sd.StaffID, StartTime: slot.Start, EndTime: slot.End}
			if HasConflict(booked, q) {
				continue
			}
			free = append(free, sd.StaffID)
		}

		if len(free) > 0 {
			out = append(out, AvailableSlot{
				Start:    slot.Start,
				End:      slot.End,
				StaffIDs: free,
			})
		}
	}

	return out
}
