package review

import "github.com/google/uuid"

// Moderator acts on reviews it covers. Salon owners are pinned to their
// salon; admins leave SalonID nil.
type Moderator struct {
	ID      uuid.UUID
	SalonID *uuid.UUID
}

func (m Moderator) Covers(r *Review) bool {
	return m.SalonID == nil || *m.SalonID == r.SalonID
}

// VisibleTo reports whether r may be shown. Published reviews are public;
// anything else only to a moderator covering it. A nil moderator is an
// ordinary reader.
func VisibleTo(r *Review, m *Moderator) bool {
	if _, ok := r.Status.(Published); ok {
		return true
	}
	return m != nil && m.Covers(r)
}
