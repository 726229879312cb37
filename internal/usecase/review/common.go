package review

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonbook/salon-scheduler/internal/audit"
	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/metrics"
)

// Deps are the collaborators shared by every review use case.
type Deps struct {
	Repo         domain.Repository
	Reservations domain.ReservationReader
	Audit        *audit.Dispatcher
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Now          func() time.Time

	// EditWindow defaults to domain.DefaultEditWindow when zero.
	EditWindow time.Duration
	// RequireCompleted rejects reviews of reservations that are not
	// completed.
	RequireCompleted bool
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) editWindow() time.Duration {
	if d.EditWindow > 0 {
		return d.EditWindow
	}
	return domain.DefaultEditWindow
}

func (d Deps) dispatch(r *domain.Review, actor uuid.UUID, action string, meta map[string]any) {
	id := r.ID
	d.Audit.Dispatch(audit.Event{
		SalonID:  r.SalonID,
		ActorID:  &actor,
		Action:   action,
		Entity:   "review",
		EntityID: &id,
		Metadata: meta,
	})
}

func (d Deps) logged(msg string, r *domain.Review) {
	d.Logger.Info(msg,
		zap.String("review_id", r.ID.String()),
		zap.String("reservation_id", r.ReservationID.String()),
		zap.String("status", string(r.Status.Name())),
	)
}
