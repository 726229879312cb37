package review

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type UpdateReviewInput struct {
	ID      uuid.UUID
	Changes domain.Changes
	ActorID uuid.UUID
}

type UpdateReview struct {
	Deps
}

func NewUpdateReview(deps Deps) *UpdateReview {
	return &UpdateReview{Deps: deps}
}

// Execute lets the author edit a published review inside the edit window.
func (uc *UpdateReview) Execute(
	ctx context.Context,
	in UpdateReviewInput,
) (*domain.Review, error) {

	var rv *domain.Review

	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetReviewForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if current.CustomerID != in.ActorID {
			return httperr.NotFound("review", in.ID)
		}

		if err := domain.Update(current, in.Changes, in.ActorID, uc.now(), uc.editWindow()); err != nil {
			return err
		}
		if err := tx.UpdateReview(ctx, current); err != nil {
			return err
		}
		rv = current
		return nil
	})
	if err != nil {
		return nil, httperr.Database(err)
	}

	uc.logged("review updated", rv)
	uc.dispatch(rv, in.ActorID, "review_updated", nil)

	return rv, nil
}
