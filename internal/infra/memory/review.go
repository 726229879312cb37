package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type reviewStore struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]review.Review
	// byReservation plays the role of the unique index on reservation_id.
	byReservation map[uuid.UUID]uuid.UUID
}

// ReviewRepository implements review.Repository in memory.
type ReviewRepository struct {
	s    *reviewStore
	inTx bool
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{s: &reviewStore{
		reviews:       map[uuid.UUID]review.Review{},
		byReservation: map[uuid.UUID]uuid.UUID{},
	}}
}

func (r *ReviewRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ReviewRepository) Transaction(ctx context.Context, fn func(tx review.Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	reviews := make(map[uuid.UUID]review.Review, len(r.s.reviews))
	for k, v := range r.s.reviews {
		reviews[k] = v
	}
	index := make(map[uuid.UUID]uuid.UUID, len(r.s.byReservation))
	for k, v := range r.s.byReservation {
		index[k] = v
	}

	if err := fn(&ReviewRepository{s: r.s, inTx: true}); err != nil {
		r.s.reviews = reviews
		r.s.byReservation = index
		return err
	}
	return nil
}

func (r *ReviewRepository) CreateReview(_ context.Context, rv *review.Review) error {
	defer r.lock()()

	if _, ok := r.s.byReservation[rv.ReservationID]; ok {
		return httperr.ErrBusiness(httperr.CodeDuplicateReview)
	}
	if _, ok := r.s.reviews[rv.ID]; ok {
		return httperr.Database(errDuplicateKey)
	}

	r.s.reviews[rv.ID] = copyReview(*rv)
	r.s.byReservation[rv.ReservationID] = rv.ID
	return nil
}

func (r *ReviewRepository) GetReview(_ context.Context, id uuid.UUID) (*review.Review, error) {
	defer r.lock()()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, httperr.NotFound("review", id)
	}
	out := copyReview(rv)
	return &out, nil
}

func (r *ReviewRepository) GetReviewForUpdate(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	return r.GetReview(ctx, id)
}

func (r *ReviewRepository) GetReviewByReservation(_ context.Context, reservationID uuid.UUID) (*review.Review, error) {
	defer r.lock()()

	id, ok := r.s.byReservation[reservationID]
	if !ok {
		return nil, nil
	}
	out := copyReview(r.s.reviews[id])
	return &out, nil
}

func (r *ReviewRepository) UpdateReview(_ context.Context, rv *review.Review) error {
	defer r.lock()()

	if _, ok := r.s.reviews[rv.ID]; !ok {
		return httperr.NotFound("review", rv.ID)
	}
	r.s.reviews[rv.ID] = copyReview(*rv)
	return nil
}

func (r *ReviewRepository) IncrementHelpfulCount(_ context.Context, id uuid.UUID) (int64, error) {
	defer r.lock()()

	rv, ok := r.s.reviews[id]
	if !ok {
		return 0, httperr.NotFound("review", id)
	}
	rv.HelpfulCount++
	r.s.reviews[id] = rv
	return rv.HelpfulCount, nil
}

func (r *ReviewRepository) ListReviews(
	_ context.Context,
	c review.Criteria,
	p dto.Pagination,
) ([]review.Review, int64, error) {
	defer r.lock()()

	var matched []review.Review
	for _, rv := range r.s.reviews {
		switch {
		case c.SalonID != nil && rv.SalonID != *c.SalonID:
			continue
		case c.StaffID != nil && (rv.StaffID == nil || *rv.StaffID != *c.StaffID):
			continue
		case c.CustomerID != nil && rv.CustomerID != *c.CustomerID:
			continue
		case c.Status != nil && rv.Status.Name() != *c.Status:
			continue
		case c.MinRating != nil && rv.Overall < *c.MinRating:
			continue
		}
		matched = append(matched, copyReview(rv))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, p), int64(len(matched)), nil
}

func (r *ReviewRepository) ListPublishedRatings(_ context.Context, s review.Scope) ([]review.Ratings, error) {
	defer r.lock()()

	var out []review.Ratings
	for _, rv := range r.s.reviews {
		if _, ok := rv.Status.(review.Published); !ok {
			continue
		}
		switch {
		case s.SalonID != nil && rv.SalonID != *s.SalonID:
			continue
		case s.StaffID != nil && (rv.StaffID == nil || *rv.StaffID != *s.StaffID):
			continue
		}
		out = append(out, rv.Ratings)
	}
	return out, nil
}

func copyReview(rv review.Review) review.Review {
	if rv.Images != nil {
		rv.Images = append([]string(nil), rv.Images...)
	}
	return rv
}

var _ review.Repository = (*ReviewRepository)(nil)
