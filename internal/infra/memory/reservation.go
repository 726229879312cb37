// Package memory holds in-process repositories with the same atomicity
// contract as the postgres ones: transactions are serialized and the
// overlap and uniqueness constraints are enforced on write.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/models"
)

type whKey struct {
	staffID uuid.UUID
	weekday int
}

type reservationData struct {
	reservations map[uuid.UUID]domain.Reservation
	salons       map[uuid.UUID]models.Salon
	services     map[uuid.UUID]models.Service
	staff        map[uuid.UUID]models.Staff
	hours        map[whKey]models.WorkingHours
}

func (d *reservationData) clone() *reservationData {
	c := &reservationData{
		reservations: make(map[uuid.UUID]domain.Reservation, len(d.reservations)),
		salons:       d.salons,
		services:     d.services,
		staff:        d.staff,
		hours:        d.hours,
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	return c
}

type reservationStore struct {
	mu   sync.Mutex
	data *reservationData
}

// ReservationRepository implements reservation.Repository in memory.
type ReservationRepository struct {
	s    *reservationStore
	inTx bool
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{s: &reservationStore{data: &reservationData{
		reservations: map[uuid.UUID]domain.Reservation{},
		salons:       map[uuid.UUID]models.Salon{},
		services:     map[uuid.UUID]models.Service{},
		staff:        map[uuid.UUID]models.Staff{},
		hours:        map[whKey]models.WorkingHours{},
	}}}
}

func (r *ReservationRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// --------------------------------------------------
// Catalogue seeding
// --------------------------------------------------

func (r *ReservationRepository) AddSalon(s models.Salon) {
	defer r.lock()()
	r.s.data.salons[s.ID] = s
}

func (r *ReservationRepository) AddService(s models.Service) {
	defer r.lock()()
	r.s.data.services[s.ID] = s
}

func (r *ReservationRepository) AddStaff(s models.Staff) {
	defer r.lock()()
	r.s.data.staff[s.ID] = s
}

func (r *ReservationRepository) AddWorkingHours(wh models.WorkingHours) {
	defer r.lock()()
	r.s.data.hours[whKey{wh.StaffID, wh.Weekday}] = wh
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ReservationRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := r.s.data.clone()
	if err := fn(&ReservationRepository{s: r.s, inTx: true}); err != nil {
		r.s.data = snapshot
		return err
	}
	return nil
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationRepository) CreateReservation(_ context.Context, res *domain.Reservation) error {
	defer r.lock()()

	if _, ok := r.s.data.reservations[res.ID]; ok {
		return httperr.Database(errDuplicateKey)
	}
	if err := r.checkOverlap(*res); err != nil {
		return err
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r *ReservationRepository) GetReservation(_ context.Context, id uuid.UUID) (*domain.Reservation, error) {
	defer r.lock()()

	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, httperr.NotFound("reservation", id)
	}
	return &res, nil
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return r.GetReservation(ctx, id)
}

func (r *ReservationRepository) UpdateReservation(_ context.Context, res *domain.Reservation) error {
	defer r.lock()()

	if _, ok := r.s.data.reservations[res.ID]; !ok {
		return httperr.NotFound("reservation", res.ID)
	}
	if err := r.checkOverlap(*res); err != nil {
		return err
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

// checkOverlap plays the role of the exclusion constraint.
func (r *ReservationRepository) checkOverlap(res domain.Reservation) error {
	if !domain.IsActive(res.Status) {
		return nil
	}
	id := res.ID
	q := domain.ConflictQuery{
		StaffID:   res.StaffID,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		ExcludeID: &id,
	}
	for _, other := range r.s.data.reservations {
		if q.ConflictsWith(other) {
			return httperr.ErrBusiness(httperr.CodeSlotNotAvailable)
		}
	}
	return nil
}

func (r *ReservationRepository) HasTimeConflict(_ context.Context, q domain.ConflictQuery) (bool, error) {
	defer r.lock()()

	for _, res := range r.s.data.reservations {
		if q.ConflictsWith(res) {
			return true, nil
		}
	}
	return false, nil
}

// --------------------------------------------------
// Search
// --------------------------------------------------

func (r *ReservationRepository) SearchReservations(
	_ context.Context,
	c domain.Criteria,
	p dto.Pagination,
) ([]domain.Reservation, int64, error) {
	defer r.lock()()

	var matched []domain.Reservation
	for _, res := range r.s.data.reservations {
		if matches(res, c) {
			matched = append(matched, res)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})

	return paginate(matched, p), int64(len(matched)), nil
}

func matches(res domain.Reservation, c domain.Criteria) bool {
	switch {
	case c.SalonID != nil && res.SalonID != *c.SalonID:
		return false
	case c.CustomerID != nil && res.CustomerID != *c.CustomerID:
		return false
	case c.StaffID != nil && res.StaffID != *c.StaffID:
		return false
	case c.ServiceID != nil && res.ServiceID != *c.ServiceID:
		return false
	case c.Status != nil && res.Status.Name() != *c.Status:
		return false
	case c.IsPaid != nil && res.IsPaid != *c.IsPaid:
		return false
	case c.From != nil && res.StartTime.Before(*c.From):
		return false
	case c.To != nil && !res.StartTime.Before(*c.To):
		return false
	}
	return true
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ReservationRepository) ListActiveForStaff(
	_ context.Context,
	staffIDs []uuid.UUID,
	from time.Time,
	to time.Time,
) ([]domain.Reservation, error) {
	defer r.lock()()

	wanted := make(map[uuid.UUID]bool, len(staffIDs))
	for _, id := range staffIDs {
		wanted[id] = true
	}

	var out []domain.Reservation
	for _, res := range r.s.data.reservations {
		if wanted[res.StaffID] && domain.IsActive(res.Status) &&
			domain.Overlaps(res.StartTime, res.EndTime, from, to) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *ReservationRepository) GetSalonByID(_ context.Context, id uuid.UUID) (*models.Salon, error) {
	defer r.lock()()

	s, ok := r.s.data.salons[id]
	if !ok {
		return nil, httperr.NotFound("salon", id)
	}
	return &s, nil
}

func (r *ReservationRepository) GetService(_ context.Context, salonID, serviceID uuid.UUID) (*models.Service, error) {
	defer r.lock()()

	s, ok := r.s.data.services[serviceID]
	if !ok || s.SalonID != salonID {
		return nil, httperr.NotFound("service", serviceID)
	}
	return &s, nil
}

func (r *ReservationRepository) ListActiveStaff(_ context.Context, salonID uuid.UUID) ([]models.Staff, error) {
	defer r.lock()()

	var out []models.Staff
	for _, s := range r.s.data.staff {
		if s.SalonID == salonID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ReservationRepository) GetWorkingHours(_ context.Context, staffID uuid.UUID, weekday int) (*models.WorkingHours, error) {
	defer r.lock()()

	wh, ok := r.s.data.hours[whKey{staffID, weekday}]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

var _ domain.Repository = (*ReservationRepository)(nil)
