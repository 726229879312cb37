package review

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/httperr"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MaxCommentLength  = 1000
	DefaultEditWindow = 24 * time.Hour
)

// Ratings is the overall rating plus the optional per-dimension ones.
type Ratings struct {
	Overall    int
	Service    *int
	Staff      *int
	Atmosphere *int
}

type Review struct {
	ID            uuid.UUID
	SalonID       uuid.UUID
	CustomerID    uuid.UUID
	ReservationID uuid.UUID
	StaffID       *uuid.UUID

	Ratings

	Comment string
	Images  []string

	IsVerified   bool
	Verification *Stamp
	HelpfulCount int64

	Status Status

	CreatedAt time.Time
	CreatedBy *uuid.UUID
	UpdatedAt time.Time
	UpdatedBy *uuid.UUID
}

type Changes struct {
	Rating           *int
	ServiceRating    *int
	StaffRating      *int
	AtmosphereRating *int
	Comment          *string
	Images           *[]string
}

// ===============================
// Validations
// ===============================

func validRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

func ValidateRatings(r Ratings) error {
	if !validRating(r.Overall) {
		return httperr.ErrBusiness(httperr.CodeInvalidRating)
	}
	for _, sub := range []*int{r.Service, r.Staff, r.Atmosphere} {
		if sub != nil && !validRating(*sub) {
			return httperr.ErrBusiness(httperr.CodeInvalidRating)
		}
	}
	return nil
}

func ValidateComment(c string) error {
	if utf8.RuneCountInString(c) > MaxCommentLength {
		return httperr.ErrBusiness(httperr.CodeCommentTooLong)
	}
	return nil
}

// CanEdit allows edits on published reviews inside the edit window.
func CanEdit(r *Review, now time.Time, window time.Duration) error {
	switch r.Status.(type) {
	case Published:
	case Hidden, Deleted:
		return httperr.ErrBusiness(httperr.CodeReviewAlreadyHidden)
	case Draft:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	default:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}

	if now.Sub(r.CreatedAt) > window {
		return httperr.ErrBusiness(httperr.CodeReviewUpdateExpired)
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

type NewInput struct {
	SalonID       uuid.UUID
	CustomerID    uuid.UUID
	ReservationID uuid.UUID
	StaffID       *uuid.UUID
	Ratings       Ratings
	Comment       string
	Images        []string
}

func New(in NewInput, now time.Time) (*Review, error) {
	if err := ValidateRatings(in.Ratings); err != nil {
		return nil, err
	}
	if err := ValidateComment(in.Comment); err != nil {
		return nil, err
	}

	customer := in.CustomerID
	return &Review{
		ID:            uuid.New(),
		SalonID:       in.SalonID,
		CustomerID:    in.CustomerID,
		ReservationID: in.ReservationID,
		StaffID:       in.StaffID,
		Ratings:       in.Ratings,
		Comment:       in.Comment,
		Images:        in.Images,
		Status:        Published{},
		CreatedAt:     now,
		CreatedBy:     &customer,
		UpdatedAt:     now,
		UpdatedBy:     &customer,
	}, nil
}

func Update(r *Review, ch Changes, by uuid.UUID, now time.Time, window time.Duration) error {
	if err := CanEdit(r, now, window); err != nil {
		return err
	}

	next := r.Ratings
	if ch.Rating != nil {
		next.Overall = *ch.Rating
	}
	if ch.ServiceRating != nil {
		v := *ch.ServiceRating
		next.Service = &v
	}
	if ch.StaffRating != nil {
		v := *ch.StaffRating
		next.Staff = &v
	}
	if ch.AtmosphereRating != nil {
		v := *ch.AtmosphereRating
		next.Atmosphere = &v
	}
	if err := ValidateRatings(next); err != nil {
		return err
	}
	if ch.Comment != nil {
		if err := ValidateComment(*ch.Comment); err != nil {
			return err
		}
		r.Comment = *ch.Comment
	}
	if ch.Images != nil {
		r.Images = *ch.Images
	}

	r.Ratings = next
	touch(r, by, now)
	return nil
}

func Publish(r *Review, by uuid.UUID, now time.Time) error {
	switch r.Status.(type) {
	case Draft:
	case Published:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	case Hidden, Deleted:
		return httperr.ErrBusiness(httperr.CodeReviewAlreadyHidden)
	default:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}

	r.Status = Published{}
	touch(r, by, now)
	return nil
}

func Hide(r *Review, reason string, by uuid.UUID, now time.Time) error {
	if err := canEnd(r.Status); err != nil {
		return err
	}
	r.Status = Hidden{Stamp: Stamp{At: now, By: by}, Reason: reason}
	touch(r, by, now)
	return nil
}

func Delete(r *Review, reason string, by uuid.UUID, now time.Time) error {
	if err := canEnd(r.Status); err != nil {
		return err
	}
	r.Status = Deleted{Stamp: Stamp{At: now, By: by}, Reason: reason}
	touch(r, by, now)
	return nil
}

// Verify is idempotent: the first verification stamp is kept. It reports
// whether r changed.
func Verify(r *Review, by uuid.UUID, now time.Time) bool {
	if r.IsVerified {
		return false
	}
	r.IsVerified = true
	r.Verification = &Stamp{At: now, By: by}
	touch(r, by, now)
	return true
}

func canEnd(s Status) error {
	switch s.(type) {
	case Draft, Published:
		return nil
	case Hidden, Deleted:
		return httperr.ErrBusiness(httperr.CodeReviewAlreadyHidden)
	}
	return httperr.ErrBusiness(httperr.CodeInvalidStatus)
}

func touch(r *Review, by uuid.UUID, now time.Time) {
	actor := by
	r.UpdatedAt = now
	r.UpdatedBy = &actor
}
