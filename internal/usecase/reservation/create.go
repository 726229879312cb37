package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	SalonID    uuid.UUID
	CustomerID uuid.UUID
	StaffID    uuid.UUID
	ServiceID  uuid.UUID

	StartTime time.Time
	EndTime   time.Time

	Notes         string
	TotalAmount   int64
	DepositAmount *int64

	ActorID *uuid.UUID
	// Scope bounds who the reservation may be booked for.
	Scope domain.Scope
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	Deps
}

func NewCreateReservation(deps Deps) *CreateReservation {
	return &CreateReservation{Deps: deps}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*domain.Reservation, error) {

	// --------------------------------------------------
	// Validation, before any I/O
	// --------------------------------------------------
	res, err := domain.New(
		in.SalonID, in.CustomerID, in.StaffID, in.ServiceID,
		in.StartTime, in.EndTime,
		in.Notes,
		in.TotalAmount,
		in.DepositAmount,
		in.ActorID,
		uc.now(),
	)
	if err != nil {
		return nil, err
	}
	if !in.Scope.Allows(res) {
		return nil, httperr.NotFound("salon", in.SalonID)
	}

	// --------------------------------------------------
	// Catalogue, conflict check and insert, one serializable unit
	// --------------------------------------------------
	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := bookable(ctx, tx, res); err != nil {
			return err
		}
		conflict, err := tx.HasTimeConflict(ctx, domain.ConflictQuery{
			StaffID:   res.StaffID,
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
		})
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrBusiness(httperr.CodeSlotNotAvailable)
		}
		return tx.CreateReservation(ctx, res)
	})
	if err != nil {
		return nil, uc.slotErr("create", err)
	}

	uc.Metrics.ReservationsCreated.Inc()
	uc.logged("reservation created", res)
	uc.dispatch(res, in.ActorID, "reservation_created", map[string]any{
		"staff_id":   res.StaffID,
		"start_time": res.StartTime,
		"end_time":   res.EndTime,
	})

	return res, nil
}
