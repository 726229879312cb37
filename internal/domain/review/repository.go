package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
)

type Criteria struct {
	SalonID    *uuid.UUID
	StaffID    *uuid.UUID
	CustomerID *uuid.UUID
	Status     *StatusName
	MinRating  *int
}

// Scope selects the reviews a summary aggregates. Exactly one of the
// fields is set.
type Scope struct {
	SalonID *uuid.UUID
	StaffID *uuid.UUID
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// CreateReview fails with duplicate_review when a review already
	// exists for the reservation.
	CreateReview(ctx context.Context, r *Review) error

	GetReview(ctx context.Context, id uuid.UUID) (*Review, error)
	GetReviewForUpdate(ctx context.Context, id uuid.UUID) (*Review, error)

	// GetReviewByReservation returns nil, nil when none exists.
	GetReviewByReservation(ctx context.Context, reservationID uuid.UUID) (*Review, error)

	UpdateReview(ctx context.Context, r *Review) error

	IncrementHelpfulCount(ctx context.Context, id uuid.UUID) (int64, error)

	ListReviews(
		ctx context.Context,
		c Criteria,
		p dto.Pagination,
	) ([]Review, int64, error)

	// ListPublishedRatings returns the ratings of published reviews in scope.
	ListPublishedRatings(ctx context.Context, s Scope) ([]Ratings, error)
}

// ReservationReader is the read-only view of the scheduling core the
// review engine depends on.
type ReservationReader interface {
	GetReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}
