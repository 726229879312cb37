package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonbook/salon-scheduler/internal/audit"
	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/metrics"
	"github.com/salonbook/salon-scheduler/internal/timezone"
)

// Deps are the collaborators shared by every reservation use case.
type Deps struct {
	Repo    domain.Repository
	Audit   *audit.Dispatcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// slotErr maps an exhausted serializable retry on the booking path to
// slot_not_available.
func (d Deps) slotErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTxConflict):
		d.Metrics.TxAborts.WithLabelValues(op).Inc()
		d.Metrics.ReservationConflicts.WithLabelValues(op).Inc()
		return httperr.BusinessError{Code: httperr.CodeSlotNotAvailable, Err: err}
	case httperr.IsBusiness(err, httperr.CodeSlotNotAvailable):
		d.Metrics.ReservationConflicts.WithLabelValues(op).Inc()
		return err
	}
	return httperr.Database(err)
}

// bookable checks r against the catalogue: the service must be an active
// one of the salon, the staff member active there and working for the
// whole interval, lunch excluded.
func bookable(ctx context.Context, tx domain.Repository, r *domain.Reservation) error {
	salon, err := tx.GetSalonByID(ctx, r.SalonID)
	if err != nil {
		return err
	}

	service, err := tx.GetService(ctx, r.SalonID, r.ServiceID)
	if err != nil {
		return err
	}
	if !service.Active {
		return httperr.NotFound("service", r.ServiceID)
	}

	staff, err := tx.ListActiveStaff(ctx, r.SalonID)
	if err != nil {
		return err
	}
	found := false
	for _, s := range staff {
		if s.ID == r.StaffID {
			found = true
			break
		}
	}
	if !found {
		return httperr.NotFound("staff", r.StaffID)
	}

	start := r.StartTime.In(timezone.Location(salon.Timezone))
	y, m, dd := start.Date()
	day := time.Date(y, m, dd, 0, 0, 0, 0, start.Location())

	open, err := domain.AtClock(day, salon.OpenTime)
	if err != nil {
		return err
	}
	closing, err := domain.AtClock(day, salon.CloseTime)
	if err != nil {
		return err
	}

	wh, err := tx.GetWorkingHours(ctx, r.StaffID, int(day.Weekday()))
	if err != nil {
		return err
	}
	sd, ok := domain.StaffWindow(day, domain.Window{Start: open, End: closing}, r.StaffID, wh)
	if !ok || !sd.Admits(r.StartTime, r.EndTime) {
		return httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
	}
	return nil
}

func (d Deps) dispatch(r *domain.Reservation, actor *uuid.UUID, action string, meta map[string]any) {
	id := r.ID
	d.Audit.Dispatch(audit.Event{
		SalonID:  r.SalonID,
		ActorID:  actor,
		Action:   action,
		Entity:   "reservation",
		EntityID: &id,
		Metadata: meta,
	})
}

func (d Deps) logged(msg string, r *domain.Reservation) {
	d.Logger.Info(msg,
		zap.String("reservation_id", r.ID.String()),
		zap.String("staff_id", r.StaffID.String()),
		zap.String("status", string(r.Status.Name())),
	)
}
