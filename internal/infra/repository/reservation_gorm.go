package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/models"
)

type ReservationGormRepository struct {
	db         *gorm.DB
	maxRetries int
	inTx       bool
}

func NewReservationGormRepository(db *gorm.DB, maxRetries int) *ReservationGormRepository {
	return &ReservationGormRepository{db: db, maxRetries: maxRetries}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ReservationGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}

	err := serializable(ctx, r.db, r.maxRetries, func(tx *gorm.DB) error {
		return fn(&ReservationGormRepository{db: tx, maxRetries: r.maxRetries, inTx: true})
	})
	return reservationTxErr(err)
}

// reservationTxErr reports exhausted retries as domain.ErrTxConflict, which
// the booking path turns into slot_not_available.
func reservationTxErr(err error) error {
	if errors.Is(err, errRetriesExhausted) {
		return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
	}
	return err
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *domain.Reservation,
) error {
	m := reservationToModel(res)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateReservationWrite(err)
	}
	return nil
}

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Reservation, error) {
	return r.getReservation(r.db.WithContext(ctx), id)
}

func (r *ReservationGormRepository) GetReservationForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Reservation, error) {
	return r.getReservation(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *ReservationGormRepository) getReservation(
	q *gorm.DB,
	id uuid.UUID,
) (*domain.Reservation, error) {

	var m models.Reservation
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("reservation", id)
		}
		return nil, httperr.Database(err)
	}

	return reservationFromModel(m)
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *domain.Reservation,
) error {
	m := reservationToModel(res)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return translateReservationWrite(err)
	}
	return nil
}

// --------------------------------------------------
// Conflict
// --------------------------------------------------

func (r *ReservationGormRepository) HasTimeConflict(
	ctx context.Context,
	q domain.ConflictQuery,
) (bool, error) {

	query := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(
			"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			q.StaffID,
			activeStatuses(),
			q.EndTime,
			q.StartTime,
		)
	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, httperr.Database(err)
	}

	return count > 0, nil
}

// --------------------------------------------------
// Search
// --------------------------------------------------

func (r *ReservationGormRepository) SearchReservations(
	ctx context.Context,
	c domain.Criteria,
	p dto.Pagination,
) ([]domain.Reservation, int64, error) {

	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	if c.SalonID != nil {
		query = query.Where("salon_id = ?", *c.SalonID)
	}
	if c.CustomerID != nil {
		query = query.Where("customer_id = ?", *c.CustomerID)
	}
	if c.StaffID != nil {
		query = query.Where("staff_id = ?", *c.StaffID)
	}
	if c.ServiceID != nil {
		query = query.Where("service_id = ?", *c.ServiceID)
	}
	if c.Status != nil {
		query = query.Where("status = ?", string(*c.Status))
	}
	if c.IsPaid != nil {
		query = query.Where("is_paid = ?", *c.IsPaid)
	}
	if c.From != nil {
		query = query.Where("start_time >= ?", *c.From)
	}
	if c.To != nil {
		query = query.Where("start_time < ?", *c.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httperr.Database(err)
	}

	var rows []models.Reservation
	if err := query.
		Order("start_time DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, httperr.Database(err)
	}

	out, err := reservationsFromModels(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ReservationGormRepository) ListActiveForStaff(
	ctx context.Context,
	staffIDs []uuid.UUID,
	from time.Time,
	to time.Time,
) ([]domain.Reservation, error) {

	if len(staffIDs) == 0 {
		return nil, nil
	}

	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id IN ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffIDs, activeStatuses(), to, from,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, httperr.Database(err)
	}

	return reservationsFromModels(rows)
}

func (r *ReservationGormRepository) GetSalonByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&salon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("salon", id)
		}
		return nil, httperr.Database(err)
	}
	return &salon, nil
}

func (r *ReservationGormRepository) GetService(
	ctx context.Context,
	salonID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", serviceID, salonID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("service", serviceID)
		}
		return nil, httperr.Database(err)
	}
	return &svc, nil
}

func (r *ReservationGormRepository) ListActiveStaff(
	ctx context.Context,
	salonID uuid.UUID,
) ([]models.Staff, error) {

	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = ?", salonID, true).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, httperr.Database(err)
	}
	return staff, nil
}

func (r *ReservationGormRepository) GetWorkingHours(
	ctx context.Context,
	staffID uuid.UUID,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ?", staffID, weekday).
		First(&wh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, httperr.Database(err)
	}

	return &wh, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func translateReservationWrite(err error) error {
	if isExclusionViolation(err) {
		return httperr.BusinessError{Code: httperr.CodeSlotNotAvailable, Err: err}
	}
	return httperr.Database(err)
}

func reservationToModel(r *domain.Reservation) models.Reservation {
	m := models.Reservation{
		ID:            r.ID,
		SalonID:       r.SalonID,
		CustomerID:    r.CustomerID,
		StaffID:       r.StaffID,
		ServiceID:     r.ServiceID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status.Name()),
		Notes:         r.Notes,
		TotalAmount:   r.TotalAmount,
		DepositAmount: r.DepositAmount,
		IsPaid:        r.IsPaid,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
	}

	switch s := r.Status.(type) {
	case domain.Confirmed:
		m.ConfirmedAt, m.ConfirmedBy = stampFields(s.Stamp)
	case domain.Cancelled:
		m.CancelledAt, m.CancelledBy = stampFields(s.Stamp)
		reason := s.Reason
		m.CancellationReason = &reason
		if s.Confirmed != nil {
			m.ConfirmedAt, m.ConfirmedBy = stampFields(*s.Confirmed)
		}
	case domain.Completed:
		m.CompletedAt, m.CompletedBy = stampFields(s.Stamp)
		m.ConfirmedAt, m.ConfirmedBy = stampFields(s.Confirmed)
	case domain.NoShow:
		m.NoShowAt, m.NoShowBy = stampFields(s.Stamp)
		m.ConfirmedAt, m.ConfirmedBy = stampFields(s.Confirmed)
	}

	return m
}

func reservationFromModel(m models.Reservation) (*domain.Reservation, error) {
	status, err := statusFromModel(m)
	if err != nil {
		return nil, err
	}

	return &domain.Reservation{
		ID:            m.ID,
		SalonID:       m.SalonID,
		CustomerID:    m.CustomerID,
		StaffID:       m.StaffID,
		ServiceID:     m.ServiceID,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Notes:         m.Notes,
		TotalAmount:   m.TotalAmount,
		DepositAmount: m.DepositAmount,
		IsPaid:        m.IsPaid,
		Status:        status,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		UpdatedAt:     m.UpdatedAt,
		UpdatedBy:     m.UpdatedBy,
	}, nil
}

func reservationsFromModels(rows []models.Reservation) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		res, err := reservationFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func statusFromModel(m models.Reservation) (domain.Status, error) {
	name, ok := domain.ParseStatusName(m.Status)
	if !ok {
		return nil, httperr.Database(fmt.Errorf("unknown reservation status %q", m.Status))
	}

	switch name {
	case domain.StatusPending:
		return domain.Pending{}, nil
	case domain.StatusConfirmed:
		return domain.Confirmed{Stamp: stampOf(m.ConfirmedAt, m.ConfirmedBy)}, nil
	case domain.StatusCancelled:
		c := domain.Cancelled{Stamp: stampOf(m.CancelledAt, m.CancelledBy)}
		if m.CancellationReason != nil {
			c.Reason = *m.CancellationReason
		}
		if m.ConfirmedAt != nil {
			st := stampOf(m.ConfirmedAt, m.ConfirmedBy)
			c.Confirmed = &st
		}
		return c, nil
	case domain.StatusCompleted:
		return domain.Completed{
			Stamp:     stampOf(m.CompletedAt, m.CompletedBy),
			Confirmed: stampOf(m.ConfirmedAt, m.ConfirmedBy),
		}, nil
	case domain.StatusNoShow:
		return domain.NoShow{
			Stamp:     stampOf(m.NoShowAt, m.NoShowBy),
			Confirmed: stampOf(m.ConfirmedAt, m.ConfirmedBy),
		}, nil
	}
	return nil, httperr.Database(fmt.Errorf("unmapped reservation status %q", name))
}

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

func stampFields(s domain.Stamp) (*time.Time, *uuid.UUID) {
	at, by := s.At, s.By
	return &at, &by
}

func stampOf(at *time.Time, by *uuid.UUID) domain.Stamp {
	var s domain.Stamp
	if at != nil {
		s.At = *at
	}
	if by != nil {
		s.By = *by
	}
	return s
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
