package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/httperr"
)

type Reservation struct {
	ID         uuid.UUID
	SalonID    uuid.UUID
	CustomerID uuid.UUID
	StaffID    uuid.UUID
	ServiceID  uuid.UUID

	StartTime time.Time
	EndTime   time.Time

	Notes         string
	TotalAmount   int64
	DepositAmount *int64
	IsPaid        bool

	Status Status

	CreatedAt time.Time
	CreatedBy *uuid.UUID
	UpdatedAt time.Time
	UpdatedBy *uuid.UUID
}

// CancellationReason is only present on cancelled reservations.
func (r *Reservation) CancellationReason() *string {
	if c, ok := r.Status.(Cancelled); ok {
		reason := c.Reason
		return &reason
	}
	return nil
}

// Changes holds the fields an update may touch. Nil means unchanged.
type Changes struct {
	StaffID       *uuid.UUID
	ServiceID     *uuid.UUID
	StartTime     *time.Time
	EndTime       *time.Time
	Notes         *string
	TotalAmount   *int64
	DepositAmount *int64
	IsPaid        *bool
}

// ===============================
// Validations
// ===============================

func ValidateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return httperr.ErrBusiness(httperr.CodeInvalidTimeRange)
	}
	return nil
}

func validateAmounts(total int64, deposit *int64) error {
	if total < 0 {
		return httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	if deposit != nil && (*deposit < 0 || *deposit > total) {
		return httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	return nil
}

// CanModify rejects field updates on terminal reservations.
func CanModify(current Status) error {
	switch current.(type) {
	case Pending, Confirmed, NoShow:
		return nil
	case Cancelled, Completed:
		return httperr.ErrBusiness(httperr.CodeNotModifiable)
	}
	return httperr.ErrBusiness(httperr.CodeInvalidStatus)
}

// ===============================
// Domain Actions
// ===============================

func New(
	salonID, customerID, staffID, serviceID uuid.UUID,
	start, end time.Time,
	notes string,
	total int64,
	deposit *int64,
	by *uuid.UUID,
	now time.Time,
) (*Reservation, error) {
	if err := ValidateTimeRange(start, end); err != nil {
		return nil, err
	}
	if err := validateAmounts(total, deposit); err != nil {
		return nil, err
	}

	return &Reservation{
		ID:            uuid.New(),
		SalonID:       salonID,
		CustomerID:    customerID,
		StaffID:       staffID,
		ServiceID:     serviceID,
		StartTime:     start,
		EndTime:       end,
		Notes:         notes,
		TotalAmount:   total,
		DepositAmount: deposit,
		Status:        Pending{},
		CreatedAt:     now,
		CreatedBy:     by,
		UpdatedAt:     now,
		UpdatedBy:     by,
	}, nil
}

func Confirm(r *Reservation, by uuid.UUID, now time.Time) error {
	switch r.Status.(type) {
	case Pending:
	case Confirmed:
		return httperr.ErrBusiness(httperr.CodeAlreadyConfirmed)
	case Cancelled, Completed, NoShow:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	default:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}

	r.Status = Confirmed{Stamp: Stamp{At: now, By: by}}
	touch(r, by, now)
	return nil
}

func Cancel(r *Reservation, reason string, by uuid.UUID, now time.Time) error {
	var confirmed *Stamp

	switch s := r.Status.(type) {
	case Pending:
	case Confirmed:
		st := s.Stamp
		confirmed = &st
	case Cancelled:
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
	case Completed, NoShow:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	default:
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}

	r.Status = Cancelled{
		Stamp:     Stamp{At: now, By: by},
		Reason:    reason,
		Confirmed: confirmed,
	}
	touch(r, by, now)
	return nil
}

func Complete(r *Reservation, by uuid.UUID, now time.Time) error {
	s, ok := r.Status.(Confirmed)
	if !ok {
		return httperr.ErrBusiness(httperr.CodeNotConfirmed)
	}

	r.Status = Completed{
		Stamp:     Stamp{At: now, By: by},
		Confirmed: s.Stamp,
	}
	touch(r, by, now)
	return nil
}

// MarkNoShow requires a confirmed reservation whose start lies strictly
// in the past.
func MarkNoShow(r *Reservation, by uuid.UUID, now time.Time) error {
	s, ok := r.Status.(Confirmed)
	if !ok {
		return httperr.ErrBusiness(httperr.CodeNotConfirmed)
	}
	if !r.StartTime.Before(now) {
		return httperr.ErrBusiness(httperr.CodeNotYetPassed)
	}

	r.Status = NoShow{
		Stamp:     Stamp{At: now, By: by},
		Confirmed: s.Stamp,
	}
	touch(r, by, now)
	return nil
}

// Apply mutates r with ch and reports whether the staff member or the
// interval changed, in which case the caller must re-check conflicts.
func Apply(r *Reservation, ch Changes, by uuid.UUID, now time.Time) (bool, error) {
	if err := CanModify(r.Status); err != nil {
		return false, err
	}

	next := *r
	rescheduled := false

	if ch.StaffID != nil && *ch.StaffID != r.StaffID {
		next.StaffID = *ch.StaffID
		rescheduled = true
	}
	if ch.StartTime != nil && !ch.StartTime.Equal(r.StartTime) {
		next.StartTime = *ch.StartTime
		rescheduled = true
	}
	if ch.EndTime != nil && !ch.EndTime.Equal(r.EndTime) {
		next.EndTime = *ch.EndTime
		rescheduled = true
	}
	if ch.ServiceID != nil {
		next.ServiceID = *ch.ServiceID
	}
	if ch.Notes != nil {
		next.Notes = *ch.Notes
	}
	if ch.TotalAmount != nil {
		next.TotalAmount = *ch.TotalAmount
	}
	if ch.DepositAmount != nil {
		d := *ch.DepositAmount
		next.DepositAmount = &d
	}
	if ch.IsPaid != nil {
		next.IsPaid = *ch.IsPaid
	}

	if err := ValidateTimeRange(next.StartTime, next.EndTime); err != nil {
		return false, err
	}
	if err := validateAmounts(next.TotalAmount, next.DepositAmount); err != nil {
		return false, err
	}

	*r = next
	touch(r, by, now)
	return rescheduled, nil
}

func touch(r *Reservation, by uuid.UUID, now time.Time) {
	actor := by
	r.UpdatedAt = now
	r.UpdatedBy = &actor
}
