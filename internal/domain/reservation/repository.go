package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/models"
)

// ErrTxConflict is returned by Transaction once a serializable
// transaction has failed with a serialization error on every attempt.
var ErrTxConflict = errors.New("transaction aborted by concurrent writers")

type Criteria struct {
	SalonID    *uuid.UUID
	CustomerID *uuid.UUID
	StaffID    *uuid.UUID
	ServiceID  *uuid.UUID
	Status     *StatusName
	IsPaid     *bool
	// StartTime window, half-open [From, To).
	From *time.Time
	To   *time.Time
}

type Repository interface {
	// Transaction runs fn inside one serializable transaction, retrying
	// the whole unit on serialization failures.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Reservation --------
	CreateReservation(ctx context.Context, r *Reservation) error

	GetReservation(
		ctx context.Context,
		id uuid.UUID,
	) (*Reservation, error)

	GetReservationForUpdate(
		ctx context.Context,
		id uuid.UUID,
	) (*Reservation, error)

	UpdateReservation(ctx context.Context, r *Reservation) error

	// -------- Conflict --------
	HasTimeConflict(ctx context.Context, q ConflictQuery) (bool, error)

	// -------- Search --------
	SearchReservations(
		ctx context.Context,
		c Criteria,
		p dto.Pagination,
	) ([]Reservation, int64, error)

	// -------- Availability --------
	ListActiveForStaff(
		ctx context.Context,
		staffIDs []uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]Reservation, error)

	GetSalonByID(ctx context.Context, id uuid.UUID) (*models.Salon, error)

	GetService(
		ctx context.Context,
		salonID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	ListActiveStaff(ctx context.Context, salonID uuid.UUID) ([]models.Staff, error)

	// GetWorkingHours returns nil, nil when the staff member has no row
	// for the weekday.
	GetWorkingHours(
		ctx context.Context,
		staffID uuid.UUID,
		weekday int,
	) (*models.WorkingHours, error)
}
