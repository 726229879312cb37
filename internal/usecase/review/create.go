package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/domain/reservation"
	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type CreateReviewInput struct {
	ReservationID uuid.UUID
	CustomerID    uuid.UUID
	Ratings       domain.Ratings
	Comment       string
	Images        []string
}

type CreateReview struct {
	Deps
}

func NewCreateReview(deps Deps) *CreateReview {
	return &CreateReview{Deps: deps}
}

func (uc *CreateReview) Execute(
	ctx context.Context,
	in CreateReviewInput,
) (*domain.Review, error) {

	// --------------------------------------------------
	// Referenced reservation
	// --------------------------------------------------
	res, err := uc.Reservations.GetReservation(ctx, in.ReservationID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeReservationNotFound)
		}
		return nil, httperr.Database(err)
	}
	if res.CustomerID != in.CustomerID {
		return nil, httperr.ErrBusiness(httperr.CodeReservationNotFound)
	}
	if uc.RequireCompleted {
		if _, ok := res.Status.(reservation.Completed); !ok {
			return nil, httperr.ErrBusiness(httperr.CodeReservationNotCompleted)
		}
	}

	// --------------------------------------------------
	// Fast duplicate check; the unique index decides races
	// --------------------------------------------------
	existing, err := uc.Repo.GetReviewByReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, httperr.Database(err)
	}
	if existing != nil {
		uc.Metrics.ReviewDuplicates.Inc()
		return nil, httperr.ErrBusiness(httperr.CodeDuplicateReview)
	}

	staffID := res.StaffID
	rv, err := domain.New(domain.NewInput{
		SalonID:       res.SalonID,
		CustomerID:    in.CustomerID,
		ReservationID: in.ReservationID,
		StaffID:       &staffID,
		Ratings:       in.Ratings,
		Comment:       in.Comment,
		Images:        in.Images,
	}, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.CreateReview(ctx, rv); err != nil {
		if httperr.IsBusiness(err, httperr.CodeDuplicateReview) {
			uc.Metrics.ReviewDuplicates.Inc()
		}
		return nil, httperr.Database(err)
	}

	uc.Metrics.ReviewsCreated.Inc()
	uc.logged("review created", rv)
	uc.dispatch(rv, in.CustomerID, "review_created", map[string]any{
		"rating": rv.Overall,
	})

	return rv, nil
}
