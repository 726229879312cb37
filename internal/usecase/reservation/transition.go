package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type transitionFunc func(r *domain.Reservation, by uuid.UUID, now time.Time) error

// transition locks the reservation, applies fn and persists the result.
// Reservations outside scope are reported as not found.
func (d Deps) transition(
	ctx context.Context,
	id uuid.UUID,
	actor uuid.UUID,
	scope domain.Scope,
	action string,
	meta map[string]any,
	fn transitionFunc,
) (*domain.Reservation, error) {

	var res *domain.Reservation

	err := d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !scope.Allows(current) {
			return httperr.NotFound("reservation", id)
		}
		if err := fn(current, actor, d.now()); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, current); err != nil {
			return err
		}
		res = current
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrTxConflict) {
			d.Metrics.TxAborts.WithLabelValues(action).Inc()
		}
		return nil, httperr.Database(err)
	}

	d.Metrics.ReservationStatus.WithLabelValues(string(res.Status.Name())).Inc()
	d.logged("reservation status changed", res)
	d.dispatch(res, &actor, action, meta)

	return res, nil
}

// ===============================
// Confirm
// ===============================

type ConfirmReservation struct {
	Deps
}

func NewConfirmReservation(deps Deps) *ConfirmReservation {
	return &ConfirmReservation{Deps: deps}
}

func (uc *ConfirmReservation) Execute(
	ctx context.Context,
	id uuid.UUID,
	actor uuid.UUID,
	scope domain.Scope,
) (*domain.Reservation, error) {
	return uc.transition(ctx, id, actor, scope, "reservation_confirmed", nil, domain.Confirm)
}

// ===============================
// Cancel
// ===============================

type CancelReservation struct {
	Deps
}

func NewCancelReservation(deps Deps) *CancelReservation {
	return &CancelReservation{Deps: deps}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	id uuid.UUID,
	reason string,
	actor uuid.UUID,
	scope domain.Scope,
) (*domain.Reservation, error) {
	return uc.transition(ctx, id, actor, scope, "reservation_cancelled",
		map[string]any{"reason": reason},
		func(r *domain.Reservation, by uuid.UUID, now time.Time) error {
			return domain.Cancel(r, reason, by, now)
		},
	)
}

// ===============================
// Complete
// ===============================

type CompleteReservation struct {
	Deps
}

func NewCompleteReservation(deps Deps) *CompleteReservation {
	return &CompleteReservation{Deps: deps}
}

func (uc *CompleteReservation) Execute(
	ctx context.Context,
	id uuid.UUID,
	actor uuid.UUID,
	scope domain.Scope,
) (*domain.Reservation, error) {
	return uc.transition(ctx, id, actor, scope, "reservation_completed", nil, domain.Complete)
}

// ===============================
// No-show
// ===============================

type MarkNoShow struct {
	Deps
}

func NewMarkNoShow(deps Deps) *MarkNoShow {
	return &MarkNoShow{Deps: deps}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	id uuid.UUID,
	actor uuid.UUID,
	scope domain.Scope,
) (*domain.Reservation, error) {
	return uc.transition(ctx, id, actor, scope, "reservation_no_show", nil, domain.MarkNoShow)
}
