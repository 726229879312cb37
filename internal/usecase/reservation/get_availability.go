package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	Now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, Now: time.Now}
}

// Execute enumerates the salon's slots for the day at the requested
// granularity and keeps those at least one active staff member can take.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.AvailableSlot, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.Database(err)
	}

	service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, httperr.Database(err)
	}
	if !service.Active {
		return nil, httperr.NotFound("service", in.ServiceID)
	}

	duration := in.Duration
	if duration <= 0 {
		duration = time.Duration(service.DurationMin) * time.Minute
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	// --------------------------------------------------
	// Salon window on the requested day
	// --------------------------------------------------
	y, m, d := in.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, timezone.Location(salon.Timezone))

	open, err := domain.AtClock(day, salon.OpenTime)
	if err != nil {
		return nil, httperr.Database(err)
	}
	closing, err := domain.AtClock(day, salon.CloseTime)
	if err != nil {
		return nil, httperr.Database(err)
	}
	salonWindow := domain.Window{Start: open, End: closing}

	grid := domain.Grid(salonWindow, duration)
	if len(grid) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	// --------------------------------------------------
	// Staff windows
	// --------------------------------------------------
	staff, err := uc.repo.ListActiveStaff(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.Database(err)
	}

	weekday := int(day.Weekday())
	days := make([]domain.StaffDay, 0, len(staff))
	ids := make([]uuid.UUID, 0, len(staff))

	for _, s := range staff {
		wh, err := uc.repo.GetWorkingHours(ctx, s.ID, weekday)
		if err != nil {
			return nil, httperr.Database(err)
		}
		sd, ok := domain.StaffWindow(day, salonWindow, s.ID, wh)
		if !ok {
			continue
		}
		days = append(days, sd)
		ids = append(ids, s.ID)
	}

	if len(days) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	// --------------------------------------------------
	// Existing bookings
	// --------------------------------------------------
	booked, err := uc.repo.ListActiveForStaff(ctx, ids, open, closing)
	if err != nil {
		return nil, httperr.Database(err)
	}

	return domain.FilterSlots(grid, days, booked, uc.Now()), nil
}
