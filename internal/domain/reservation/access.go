package reservation

import "github.com/google/uuid"

// Scope bounds the reservations an actor may reach. Customers are pinned
// to their own, staff and owners to their salon. The zero Scope reaches
// everything.
type Scope struct {
	CustomerID *uuid.UUID
	SalonID    *uuid.UUID
}

func (s Scope) Allows(r *Reservation) bool {
	if s.CustomerID != nil && *s.CustomerID != r.CustomerID {
		return false
	}
	if s.SalonID != nil && *s.SalonID != r.SalonID {
		return false
	}
	return true
}

// Narrow overrides c's customer and salon filters with the scope's.
func (s Scope) Narrow(c Criteria) Criteria {
	if s.CustomerID != nil {
		c.CustomerID = s.CustomerID
	}
	if s.SalonID != nil {
		c.SalonID = s.SalonID
	}
	return c
}
