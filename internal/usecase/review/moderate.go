package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type moderateFunc func(r *domain.Review, by uuid.UUID, now time.Time) error

// errUnchanged tells moderate the review is already in the requested state.
var errUnchanged = errors.New("review unchanged")

// moderate applies fn to the locked review. Reviews outside the
// moderator's salon are reported as not found.
func (d Deps) moderate(
	ctx context.Context,
	id uuid.UUID,
	mod domain.Moderator,
	action string,
	meta map[string]any,
	fn moderateFunc,
) (*domain.Review, error) {

	var rv *domain.Review
	changed := true

	err := d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetReviewForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !mod.Covers(current) {
			return httperr.NotFound("review", id)
		}
		rv = current
		switch err := fn(current, mod.ID, d.now()); {
		case errors.Is(err, errUnchanged):
			changed = false
			return nil
		case err != nil:
			return err
		}
		return tx.UpdateReview(ctx, current)
	})
	if err != nil {
		return nil, httperr.Database(err)
	}
	if !changed {
		return rv, nil
	}

	d.Metrics.ReviewStatus.WithLabelValues(string(rv.Status.Name())).Inc()
	d.logged("review moderated", rv)
	d.dispatch(rv, mod.ID, action, meta)

	return rv, nil
}

// ===============================
// Publish
// ===============================

type PublishReview struct {
	Deps
}

func NewPublishReview(deps Deps) *PublishReview {
	return &PublishReview{Deps: deps}
}

func (uc *PublishReview) Execute(ctx context.Context, id uuid.UUID, mod domain.Moderator) (*domain.Review, error) {
	return uc.moderate(ctx, id, mod, "review_published", nil, domain.Publish)
}

// ===============================
// Hide
// ===============================

type HideReview struct {
	Deps
}

func NewHideReview(deps Deps) *HideReview {
	return &HideReview{Deps: deps}
}

func (uc *HideReview) Execute(ctx context.Context, id uuid.UUID, reason string, mod domain.Moderator) (*domain.Review, error) {
	return uc.moderate(ctx, id, mod, "review_hidden",
		map[string]any{"reason": reason},
		func(r *domain.Review, by uuid.UUID, now time.Time) error {
			return domain.Hide(r, reason, by, now)
		},
	)
}

// ===============================
// Delete
// ===============================

type DeleteReview struct {
	Deps
}

func NewDeleteReview(deps Deps) *DeleteReview {
	return &DeleteReview{Deps: deps}
}

func (uc *DeleteReview) Execute(ctx context.Context, id uuid.UUID, reason string, mod domain.Moderator) (*domain.Review, error) {
	return uc.moderate(ctx, id, mod, "review_deleted",
		map[string]any{"reason": reason},
		func(r *domain.Review, by uuid.UUID, now time.Time) error {
			return domain.Delete(r, reason, by, now)
		},
	)
}

// ===============================
// Verify
// ===============================

type VerifyReview struct {
	Deps
}

func NewVerifyReview(deps Deps) *VerifyReview {
	return &VerifyReview{Deps: deps}
}

// Execute is allowed whatever the review's age or status. Verifying twice
// neither writes nor audits.
func (uc *VerifyReview) Execute(ctx context.Context, id uuid.UUID, mod domain.Moderator) (*domain.Review, error) {
	return uc.moderate(ctx, id, mod, "review_verified", nil,
		func(r *domain.Review, by uuid.UUID, now time.Time) error {
			if !domain.Verify(r, by, now) {
				return errUnchanged
			}
			return nil
		},
	)
}
