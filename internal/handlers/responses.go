package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/dto"
)

type ReservationResponse struct {
	ID         uuid.UUID `json:"id"`
	SalonID    uuid.UUID `json:"salon_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	StaffID    uuid.UUID `json:"staff_id"`
	ServiceID  uuid.UUID `json:"service_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	Notes         string `json:"notes,omitempty"`
	TotalAmount   int64  `json:"total_amount"`
	DepositAmount *int64 `json:"deposit_amount,omitempty"`
	IsPaid        bool   `json:"is_paid"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy *uuid.UUID `json:"confirmed_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
	NoShowAt    *time.Time `json:"no_show_at,omitempty"`
	NoShowBy    *uuid.UUID `json:"no_show_by,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

func stamp(at time.Time, by uuid.UUID) (*time.Time, *uuid.UUID) {
	return &at, &by
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:                 r.ID,
		SalonID:            r.SalonID,
		CustomerID:         r.CustomerID,
		StaffID:            r.StaffID,
		ServiceID:          r.ServiceID,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Status:             string(r.Status.Name()),
		Notes:              r.Notes,
		TotalAmount:        r.TotalAmount,
		DepositAmount:      r.DepositAmount,
		IsPaid:             r.IsPaid,
		CancellationReason: r.CancellationReason(),
		CreatedAt:          r.CreatedAt,
		CreatedBy:          r.CreatedBy,
		UpdatedAt:          r.UpdatedAt,
		UpdatedBy:          r.UpdatedBy,
	}

	switch s := r.Status.(type) {
	case reservation.Confirmed:
		out.ConfirmedAt, out.ConfirmedBy = stamp(s.At, s.By)
	case reservation.Cancelled:
		out.CancelledAt, out.CancelledBy = stamp(s.At, s.By)
		if s.Confirmed != nil {
			out.ConfirmedAt, out.ConfirmedBy = stamp(s.Confirmed.At, s.Confirmed.By)
		}
	case reservation.Completed:
		out.CompletedAt, out.CompletedBy = stamp(s.At, s.By)
		out.ConfirmedAt, out.ConfirmedBy = stamp(s.Confirmed.At, s.Confirmed.By)
	case reservation.NoShow:
		out.NoShowAt, out.NoShowBy = stamp(s.At, s.By)
		out.ConfirmedAt, out.ConfirmedBy = stamp(s.Confirmed.At, s.Confirmed.By)
	}

	return out
}

func toReservationPage(p dto.Page[reservation.Reservation]) dto.Page[ReservationResponse] {
	items := make([]ReservationResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toReservationResponse(&p.Items[i]))
	}
	return dto.Page[ReservationResponse]{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize}
}

type ReviewResponse struct {
	ID            uuid.UUID  `json:"id"`
	SalonID       uuid.UUID  `json:"salon_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`

	Rating           int  `json:"rating"`
	ServiceRating    *int `json:"service_rating,omitempty"`
	StaffRating      *int `json:"staff_rating,omitempty"`
	AtmosphereRating *int `json:"atmosphere_rating,omitempty"`

	Comment string   `json:"comment"`
	Images  []string `json:"images"`
	Status  string   `json:"status"`

	IsVerified   bool       `json:"is_verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	VerifiedBy   *uuid.UUID `json:"verified_by,omitempty"`
	HelpfulCount int64      `json:"helpful_count"`

	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
	ModeratedBy      *uuid.UUID `json:"moderated_by,omitempty"`
	ModerationReason *string    `json:"moderation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	images := r.Images
	if images == nil {
		images = []string{}
	}

	out := ReviewResponse{
		ID:               r.ID,
		SalonID:          r.SalonID,
		CustomerID:       r.CustomerID,
		ReservationID:    r.ReservationID,
		StaffID:          r.StaffID,
		Rating:           r.Overall,
		ServiceRating:    r.Service,
		StaffRating:      r.Staff,
		AtmosphereRating: r.Atmosphere,
		Comment:          r.Comment,
		Images:           images,
		Status:           string(r.Status.Name()),
		IsVerified:       r.IsVerified,
		HelpfulCount:     r.HelpfulCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if r.Verification != nil {
		out.VerifiedAt, out.VerifiedBy = stamp(r.Verification.At, r.Verification.By)
	}

	switch s := r.Status.(type) {
	case review.Hidden:
		reason := s.Reason
		out.ModeratedAt, out.ModeratedBy = stamp(s.At, s.By)
		out.ModerationReason = &reason
	case review.Deleted:
		reason := s.Reason
		out.ModeratedAt, out.ModeratedBy = stamp(s.At, s.By)
		out.ModerationReason = &reason
	}

	return out
}

func toReviewPage(p dto.Page[review.Review]) dto.Page[ReviewResponse] {
	items := make([]ReviewResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toReviewResponse(&p.Items[i]))
	}
	return dto.Page[ReviewResponse]{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize}
}
