package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/models"
)

type ReviewGormRepository struct {
	db         *gorm.DB
	maxRetries int
	inTx       bool
}

func NewReviewGormRepository(db *gorm.DB, maxRetries int) *ReviewGormRepository {
	return &ReviewGormRepository{db: db, maxRetries: maxRetries}
}

func (r *ReviewGormRepository) Transaction(
	ctx context.Context,
	fn func(tx review.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}

	err := serializable(ctx, r.db, r.maxRetries, func(tx *gorm.DB) error {
		return fn(&ReviewGormRepository{db: tx, maxRetries: r.maxRetries, inTx: true})
	})
	if errors.Is(err, errRetriesExhausted) {
		return httperr.Database(err)
	}
	return err
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func (r *ReviewGormRepository) CreateReview(ctx context.Context, rv *review.Review) error {
	m, err := reviewToModel(rv)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateReviewWrite(err)
	}
	return nil
}

// translateReviewWrite maps the unique index on reservation_id to
// duplicate_review.
func translateReviewWrite(err error) error {
	if isUniqueViolation(err) {
		return httperr.BusinessError{Code: httperr.CodeDuplicateReview, Err: err}
	}
	return httperr.Database(err)
}

func (r *ReviewGormRepository) GetReview(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	return r.getReview(r.db.WithContext(ctx), id)
}

func (r *ReviewGormRepository) GetReviewForUpdate(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	return r.getReview(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (r *ReviewGormRepository) getReview(q *gorm.DB, id uuid.UUID) (*review.Review, error) {
	var m models.Review
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("review", id)
		}
		return nil, httperr.Database(err)
	}
	return reviewFromModel(m)
}

func (r *ReviewGormRepository) GetReviewByReservation(
	ctx context.Context,
	reservationID uuid.UUID,
) (*review.Review, error) {

	var m models.Review
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, httperr.Database(err)
	}
	return reviewFromModel(m)
}

func (r *ReviewGormRepository) UpdateReview(ctx context.Context, rv *review.Review) error {
	m, err := reviewToModel(rv)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return httperr.Database(err)
	}
	return nil
}

// IncrementHelpfulCount bumps the counter in a single statement so that
// concurrent votes are never lost.
func (r *ReviewGormRepository) IncrementHelpfulCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var m models.Review

	res := r.db.WithContext(ctx).
		Model(&m).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "helpful_count"}}}).
		Where("id = ?", id).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if res.Error != nil {
		return 0, httperr.Database(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, httperr.NotFound("review", id)
	}

	return m.HelpfulCount, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *ReviewGormRepository) ListReviews(
	ctx context.Context,
	c review.Criteria,
	p dto.Pagination,
) ([]review.Review, int64, error) {

	query := r.db.WithContext(ctx).Model(&models.Review{})

	if c.SalonID != nil {
		query = query.Where("salon_id = ?", *c.SalonID)
	}
	if c.StaffID != nil {
		query = query.Where("staff_id = ?", *c.StaffID)
	}
	if c.CustomerID != nil {
		query = query.Where("customer_id = ?", *c.CustomerID)
	}
	if c.Status != nil {
		query = query.Where("status = ?", string(*c.Status))
	}
	if c.MinRating != nil {
		query = query.Where("rating >= ?", *c.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httperr.Database(err)
	}

	var rows []models.Review
	if err := query.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, httperr.Database(err)
	}

	out := make([]review.Review, 0, len(rows))
	for _, m := range rows {
		rv, err := reviewFromModel(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rv)
	}
	return out, total, nil
}

func (r *ReviewGormRepository) ListPublishedRatings(
	ctx context.Context,
	s review.Scope,
) ([]review.Ratings, error) {

	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rating", "service_rating", "staff_rating", "atmosphere_rating").
		Where("status = ?", string(review.StatusPublished))

	switch {
	case s.SalonID != nil:
		query = query.Where("salon_id = ?", *s.SalonID)
	case s.StaffID != nil:
		query = query.Where("staff_id = ?", *s.StaffID)
	}

	var rows []models.Review
	if err := query.Find(&rows).Error; err != nil {
		return nil, httperr.Database(err)
	}

	out := make([]review.Ratings, 0, len(rows))
	for _, m := range rows {
		out = append(out, review.Ratings{
			Overall:    m.Rating,
			Service:    m.ServiceRating,
			Staff:      m.StaffRating,
			Atmosphere: m.AtmosphereRating,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func reviewToModel(rv *review.Review) (models.Review, error) {
	images := "[]"
	if len(rv.Images) > 0 {
		b, err := json.Marshal(rv.Images)
		if err != nil {
			return models.Review{}, httperr.Database(err)
		}
		images = string(b)
	}

	m := models.Review{
		ID:               rv.ID,
		SalonID:          rv.SalonID,
		CustomerID:       rv.CustomerID,
		ReservationID:    rv.ReservationID,
		StaffID:          rv.StaffID,
		Rating:           rv.Overall,
		ServiceRating:    rv.Service,
		StaffRating:      rv.Staff,
		AtmosphereRating: rv.Atmosphere,
		Comment:          rv.Comment,
		Images:           images,
		Status:           string(rv.Status.Name()),
		IsVerified:       rv.IsVerified,
		HelpfulCount:     rv.HelpfulCount,
		CreatedAt:        rv.CreatedAt,
		CreatedBy:        rv.CreatedBy,
		UpdatedAt:        rv.UpdatedAt,
		UpdatedBy:        rv.UpdatedBy,
	}

	if rv.Verification != nil {
		at, by := rv.Verification.At, rv.Verification.By
		m.VerifiedAt, m.VerifiedBy = &at, &by
	}

	switch s := rv.Status.(type) {
	case review.Hidden:
		at, by, reason := s.At, s.By, s.Reason
		m.HiddenAt, m.HiddenBy, m.HiddenReason = &at, &by, &reason
	case review.Deleted:
		at, by, reason := s.At, s.By, s.Reason
		m.DeletedAt, m.DeletedBy, m.DeleteReason = &at, &by, &reason
	}

	return m, nil
}

func reviewFromModel(m models.Review) (*review.Review, error) {
	var images []string
	if m.Images != "" {
		if err := json.Unmarshal([]byte(m.Images), &images); err != nil {
			return nil, httperr.Database(err)
		}
	}

	rv := &review.Review{
		ID:            m.ID,
		SalonID:       m.SalonID,
		CustomerID:    m.CustomerID,
		ReservationID: m.ReservationID,
		StaffID:       m.StaffID,
		Ratings: review.Ratings{
			Overall:    m.Rating,
			Service:    m.ServiceRating,
			Staff:      m.StaffRating,
			Atmosphere: m.AtmosphereRating,
		},
		Comment:      m.Comment,
		Images:       images,
		IsVerified:   m.IsVerified,
		HelpfulCount: m.HelpfulCount,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
		UpdatedAt:    m.UpdatedAt,
		UpdatedBy:    m.UpdatedBy,
	}

	if m.VerifiedAt != nil {
		v := review.Stamp{At: *m.VerifiedAt}
		if m.VerifiedBy != nil {
			v.By = *m.VerifiedBy
		}
		rv.Verification = &v
	}

	name, ok := review.ParseStatusName(m.Status)
	if !ok {
		return nil, httperr.Database(errors.New("unknown review status " + m.Status))
	}

	switch name {
	case review.StatusDraft:
		rv.Status = review.Draft{}
	case review.StatusPublished:
		rv.Status = review.Published{}
	case review.StatusHidden:
		h := review.Hidden{Stamp: reviewStamp(m.HiddenAt, m.HiddenBy)}
		if m.HiddenReason != nil {
			h.Reason = *m.HiddenReason
		}
		rv.Status = h
	case review.StatusDeleted:
		d := review.Deleted{Stamp: reviewStamp(m.DeletedAt, m.DeletedBy)}
		if m.DeleteReason != nil {
			d.Reason = *m.DeleteReason
		}
		rv.Status = d
	}

	return rv, nil
}

func reviewStamp(at *time.Time, by *uuid.UUID) review.Stamp {
	var s review.Stamp
	if at != nil {
		s.At = *at
	}
	if by != nil {
		s.By = *by
	}
	return s
}

// Compile-time check
var _ review.Repository = (*ReviewGormRepository)(nil)
