package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

// ===============================
// Get
// ===============================

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

// Execute reports reservations outside scope as not found.
func (uc *GetReservation) Execute(ctx context.Context, id uuid.UUID, scope domain.Scope) (*domain.Reservation, error) {
	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, httperr.Database(err)
	}
	if !scope.Allows(res) {
		return nil, httperr.NotFound("reservation", id)
	}
	return res, nil
}

// ===============================
// Search
// ===============================

type SearchReservations struct {
	repo domain.Repository
}

func NewSearchReservations(repo domain.Repository) *SearchReservations {
	return &SearchReservations{repo: repo}
}

// Execute returns one page of matches within scope, most recent start
// time first.
func (uc *SearchReservations) Execute(
	ctx context.Context,
	c domain.Criteria,
	scope domain.Scope,
	p dto.Pagination,
) (dto.Page[domain.Reservation], error) {

	p = p.Normalize()
	c = scope.Narrow(c)

	if c.From != nil && c.To != nil && !c.From.Before(*c.To) {
		return dto.Page[domain.Reservation]{}, httperr.ErrBusiness(httperr.CodeInvalidTimeRange)
	}

	items, total, err := uc.repo.SearchReservations(ctx, c, p)
	if err != nil {
		return dto.Page[domain.Reservation]{}, httperr.Database(err)
	}

	return dto.NewPage(items, total, p), nil
}

// ===============================
// Conflict pre-flight
// ===============================

type CheckConflict struct {
	repo domain.Repository
}

func NewCheckConflict(repo domain.Repository) *CheckConflict {
	return &CheckConflict{repo: repo}
}

// Execute reports whether the interval would collide with an active
// reservation of the staff member, without writing anything.
func (uc *CheckConflict) Execute(
	ctx context.Context,
	staffID uuid.UUID,
	start, end time.Time,
	excludeID *uuid.UUID,
) (bool, error) {

	if err := domain.ValidateTimeRange(start, end); err != nil {
		return false, err
	}

	conflict, err := uc.repo.HasTimeConflict(ctx, domain.ConflictQuery{
		StaffID:   staffID,
		StartTime: start,
		EndTime:   end,
		ExcludeID: excludeID,
	})
	if err != nil {
		return false, httperr.Database(err)
	}
	return conflict, nil
}
