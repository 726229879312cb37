package reservation

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type UpdateReservationInput struct {
	ID      uuid.UUID
	Changes domain.Changes
	ActorID uuid.UUID
	Scope   domain.Scope
}

type UpdateReservation struct {
	Deps
}

func NewUpdateReservation(deps Deps) *UpdateReservation {
	return &UpdateReservation{Deps: deps}
}

// Execute applies field changes. A change of staff member, service or
// interval re-runs the catalogue and conflict checks in the same
// transaction as the write. Reservations outside the scope are not found.
func (uc *UpdateReservation) Execute(
	ctx context.Context,
	in UpdateReservationInput,
) (*domain.Reservation, error) {

	var (
		res         *domain.Reservation
		rescheduled bool
	)

	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetReservationForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if !in.Scope.Allows(current) {
			return httperr.NotFound("reservation", in.ID)
		}

		rescheduled, err = domain.Apply(current, in.Changes, in.ActorID, uc.now())
		if err != nil {
			return err
		}

		if rescheduled || in.Changes.ServiceID != nil {
			if err := bookable(ctx, tx, current); err != nil {
				return err
			}
		}

		if rescheduled {
			exclude := current.ID
			conflict, err := tx.HasTimeConflict(ctx, domain.ConflictQuery{
				StaffID:   current.StaffID,
				StartTime: current.StartTime,
				EndTime:   current.EndTime,
				ExcludeID: &exclude,
			})
			if err != nil {
				return err
			}
			if conflict {
				return httperr.ErrBusiness(httperr.CodeSlotNotAvailable)
			}
		}

		if err := tx.UpdateReservation(ctx, current); err != nil {
			return err
		}
		res = current
		return nil
	})
	if err != nil {
		return nil, uc.slotErr("update", err)
	}

	actor := in.ActorID
	uc.logged("reservation updated", res)
	uc.dispatch(res, &actor, "reservation_updated", map[string]any{
		"rescheduled": rescheduled,
	})

	return res, nil
}
