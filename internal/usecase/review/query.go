package review

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

// ===============================
// Helpful votes
// ===============================

type MarkHelpful struct {
	repo domain.Repository
}

func NewMarkHelpful(repo domain.Repository) *MarkHelpful {
	return &MarkHelpful{repo: repo}
}

// Execute increments the helpful counter atomically and returns the new
// value.
func (uc *MarkHelpful) Execute(ctx context.Context, id uuid.UUID) (int64, error) {
	n, err := uc.repo.IncrementHelpfulCount(ctx, id)
	if err != nil {
		return 0, httperr.Database(err)
	}
	return n, nil
}

// ===============================
// Get / List
// ===============================

type GetReview struct {
	repo domain.Repository
}

func NewGetReview(repo domain.Repository) *GetReview {
	return &GetReview{repo: repo}
}

// Execute hides unpublished reviews from readers that do not moderate
// them. mod is nil for ordinary readers.
func (uc *GetReview) Execute(ctx context.Context, id uuid.UUID, mod *domain.Moderator) (*domain.Review, error) {
	rv, err := uc.repo.GetReview(ctx, id)
	if err != nil {
		return nil, httperr.Database(err)
	}
	if !domain.VisibleTo(rv, mod) {
		return nil, httperr.NotFound("review", id)
	}
	return rv, nil
}

type ListReviews struct {
	repo domain.Repository
}

func NewListReviews(repo domain.Repository) *ListReviews {
	return &ListReviews{repo: repo}
}

func (uc *ListReviews) Execute(
	ctx context.Context,
	c domain.Criteria,
	p dto.Pagination,
) (dto.Page[domain.Review], error) {

	p = p.Normalize()

	if c.MinRating != nil && (*c.MinRating < domain.MinRating || *c.MinRating > domain.MaxRating) {
		return dto.Page[domain.Review]{}, httperr.ErrBusiness(httperr.CodeInvalidRating)
	}

	items, total, err := uc.repo.ListReviews(ctx, c, p)
	if err != nil {
		return dto.Page[domain.Review]{}, httperr.Database(err)
	}
	return dto.NewPage(items, total, p), nil
}

// ===============================
// Summaries
// ===============================

type GetSummary struct {
	repo domain.Repository
}

func NewGetSummary(repo domain.Repository) *GetSummary {
	return &GetSummary{repo: repo}
}

// Salon aggregates the published reviews of a salon. A salon without
// reviews yields the zero summary.
func (uc *GetSummary) Salon(ctx context.Context, salonID uuid.UUID) (domain.Summary, error) {
	return uc.summarize(ctx, domain.Scope{SalonID: &salonID})
}

// Staff aggregates the published reviews of a staff member.
func (uc *GetSummary) Staff(ctx context.Context, staffID uuid.UUID) (domain.Summary, error) {
	return uc.summarize(ctx, domain.Scope{StaffID: &staffID})
}

func (uc *GetSummary) summarize(ctx context.Context, s domain.Scope) (domain.Summary, error) {
	rows, err := uc.repo.ListPublishedRatings(ctx, s)
	if err != nil {
		return domain.Summary{}, httperr.Database(err)
	}
	return domain.Summarize(rows), nil
}
