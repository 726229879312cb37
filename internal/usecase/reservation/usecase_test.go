package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salonbook/salon-scheduler/internal/audit"
	domain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	"github.com/salonbook/salon-scheduler/internal/dto"
	"github.com/salonbook/salon-scheduler/internal/httperr"
	"github.com/salonbook/salon-scheduler/internal/infra/memory"
	"github.com/salonbook/salon-scheduler/internal/metrics"
	"github.com/salonbook/salon-scheduler/internal/models"
)

var day = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func clock(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	repo *memory.ReservationRepository
	deps Deps
	now  time.Time

	salon    uuid.UUID
	staff    uuid.UUID
	service  uuid.UUID
	customer uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     memory.NewReservationRepository(),
		now:      clock(8, 0),
		salon:    uuid.New(),
		staff:    uuid.New(),
		service:  uuid.New(),
		customer: uuid.New(),
	}

	dispatcher := audit.NewDispatcher(zap.NewNop())
	t.Cleanup(dispatcher.Close)

	f.deps = Deps{
		Repo:    f.repo,
		Audit:   dispatcher,
		Logger:  zap.NewNop(),
		Metrics: metrics.NewNop(),
		Now:     func() time.Time { return f.now },
	}

	f.repo.AddSalon(models.Salon{ID: f.salon, Timezone: "UTC", OpenTime: "08:00", CloseTime: "20:00"})
	f.repo.AddService(models.Service{ID: f.service, SalonID: f.salon, DurationMin: 60, Active: true})
	f.repo.AddStaff(models.Staff{ID: f.staff, SalonID: f.salon, Name: "Ana", Active: true})
	return f
}

// addStaff seeds another active staff member of the fixture's salon.
func (f *fixture) addStaff(name string) uuid.UUID {
	id := uuid.New()
	f.repo.AddStaff(models.Staff{ID: id, SalonID: f.salon, Name: name, Active: true})
	return id
}

var all = domain.Scope{}

func (f *fixture) create(t *testing.T, staff uuid.UUID, start, end time.Time) (*domain.Reservation, error) {
	t.Helper()
	return NewCreateReservation(f.deps).Execute(context.Background(), CreateReservationInput{
		SalonID:     f.salon,
		CustomerID:  f.customer,
		StaffID:     staff,
		ServiceID:   f.service,
		StartTime:   start,
		EndTime:     end,
		TotalAmount: 8000,
	})
}

func TestCreateScenario(t *testing.T) {
	f := newFixture(t)

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, a.Status.Name())

	_, err = f.create(t, f.staff, clock(10, 30), clock(11, 30))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNotAvailable))

	_, err = f.create(t, f.staff, clock(11, 0), clock(12, 0))
	assert.NoError(t, err, "back-to-back bookings do not conflict")

	_, err = f.create(t, f.addStaff("Bia"), clock(10, 30), clock(11, 30))
	assert.NoError(t, err, "another staff member is free")
}

func TestCreateRejectsInvalidRangeBeforePersisting(t *testing.T) {
	f := newFixture(t)

	_, err := f.create(t, f.staff, clock(11, 0), clock(11, 0))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTimeRange))

	page, err := NewSearchReservations(f.repo).Execute(context.Background(), domain.Criteria{}, all, dto.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := newFixture(t)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := clock(10, i)
			_, err := f.create(t, f.staff, start, start.Add(time.Hour))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case httperr.IsBusiness(err, httperr.CodeSlotNotAvailable):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)

	_, err = NewCancelReservation(f.deps).Execute(ctx, a.ID, "customer called", actor, all)
	require.NoError(t, err)

	_, err = f.create(t, f.staff, clock(10, 0), clock(11, 0))
	assert.NoError(t, err)
}

func TestTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)

	_, err = NewCompleteReservation(f.deps).Execute(ctx, a.ID, actor, all)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotConfirmed))

	confirmed, err := NewConfirmReservation(f.deps).Execute(ctx, a.ID, actor, all)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status.Name())

	_, err = NewConfirmReservation(f.deps).Execute(ctx, a.ID, actor, all)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyConfirmed))

	_, err = NewMarkNoShow(f.deps).Execute(ctx, a.ID, actor, all)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotYetPassed))

	f.now = clock(11, 30)
	done, err := NewCompleteReservation(f.deps).Execute(ctx, a.ID, actor, all)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status.Name())

	stored, err := NewGetReservation(f.repo).Execute(ctx, a.ID, all)
	require.NoError(t, err)
	c := stored.Status.(domain.Completed)
	assert.Equal(t, clock(11, 30), c.At)
	assert.Equal(t, clock(8, 0), c.Confirmed.At)

	_, err = NewCancelReservation(f.deps).Execute(ctx, a.ID, "too late", actor, all)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))

	_, err = NewConfirmReservation(f.deps).Execute(ctx, uuid.New(), actor, all)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestNoShowAfterStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)
	_, err = NewConfirmReservation(f.deps).Execute(ctx, a.ID, actor, all)
	require.NoError(t, err)

	f.now = clock(10, 20)
	res, err := NewMarkNoShow(f.deps).Execute(ctx, a.ID, actor, all)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, res.Status.Name())
}

func TestUpdateReschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()
	update := NewUpdateReservation(f.deps)

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)
	_, err = f.create(t, f.staff, clock(12, 0), clock(13, 0))
	require.NoError(t, err)

	// Shifting within its own interval never conflicts with itself.
	start, end := clock(10, 30), clock(11, 30)
	moved, err := update.Execute(ctx, UpdateReservationInput{
		ID:      a.ID,
		Changes: domain.Changes{StartTime: &start, EndTime: &end},
		ActorID: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, start, moved.StartTime)

	start, end = clock(11, 30), clock(12, 30)
	_, err = update.Execute(ctx, UpdateReservationInput{
		ID:      a.ID,
		Changes: domain.Changes{StartTime: &start, EndTime: &end},
		ActorID: actor,
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNotAvailable))

	stored, err := NewGetReservation(f.repo).Execute(ctx, a.ID, all)
	require.NoError(t, err)
	assert.Equal(t, clock(10, 30), stored.StartTime, "a rejected reschedule leaves the row untouched")

	_, err = NewCancelReservation(f.deps).Execute(ctx, a.ID, "", actor, all)
	require.NoError(t, err)

	notes := "late"
	_, err = update.Execute(ctx, UpdateReservationInput{ID: a.ID, Changes: domain.Changes{Notes: &notes}, ActorID: actor})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotModifiable))
}

func TestCheckConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	check := NewCheckConflict(f.repo)

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)

	conflict, err := check.Execute(ctx, f.staff, clock(10, 30), clock(11, 30), nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = check.Execute(ctx, f.staff, clock(10, 30), clock(11, 30), &a.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	_, err = check.Execute(ctx, f.staff, clock(11, 0), clock(10, 0), nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTimeRange))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	search := NewSearchReservations(f.repo)

	for h := 9; h < 14; h++ {
		_, err := f.create(t, f.staff, clock(h, 0), clock(h+1, 0))
		require.NoError(t, err)
	}
	_, err := f.create(t, f.addStaff("Bia"), clock(9, 0), clock(10, 0))
	require.NoError(t, err)

	page, err := search.Execute(ctx, domain.Criteria{StaffID: &f.staff}, all, dto.Pagination{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, clock(13, 0), page.Items[0].StartTime, "most recent start first")
	assert.Equal(t, clock(12, 0), page.Items[1].StartTime)

	from, to := clock(10, 0), clock(12, 0)
	page, err = search.Execute(ctx, domain.Criteria{StaffID: &f.staff, From: &from, To: &to}, all, dto.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, dto.DefaultPageSize, page.PageSize)

	status := domain.StatusConfirmed
	page, err = search.Execute(ctx, domain.Criteria{Status: &status}, all, dto.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)
}

func TestCreateChecksCatalogue(t *testing.T) {
	f := newFixture(t)

	// Ana works 09:00-17:00 on Mondays with lunch at noon.
	f.repo.AddWorkingHours(models.WorkingHours{
		ID:         uuid.New(),
		StaffID:    f.staff,
		Weekday:    int(time.Monday),
		StartTime:  "09:00",
		EndTime:    "17:00",
		LunchStart: "12:00",
		LunchEnd:   "13:00",
		Active:     true,
	})

	inactive := uuid.New()
	f.repo.AddStaff(models.Staff{ID: inactive, SalonID: f.salon, Name: "Caio", Active: false})

	otherSalon := uuid.New()
	foreignService := uuid.New()
	f.repo.AddSalon(models.Salon{ID: otherSalon, Timezone: "UTC", OpenTime: "08:00", CloseTime: "20:00"})
	f.repo.AddService(models.Service{ID: foreignService, SalonID: otherSalon, DurationMin: 60, Active: true})

	retired := uuid.New()
	f.repo.AddService(models.Service{ID: retired, SalonID: f.salon, DurationMin: 60, Active: false})

	book := func(staff, service uuid.UUID, start, end time.Time) error {
		_, err := NewCreateReservation(f.deps).Execute(context.Background(), CreateReservationInput{
			SalonID:    f.salon,
			CustomerID: f.customer,
			StaffID:    staff,
			ServiceID:  service,
			StartTime:  start,
			EndTime:    end,
		})
		return err
	}

	tests := []struct {
		name    string
		staff   uuid.UUID
		service uuid.UUID
		start   time.Time
		end     time.Time
		code    string
	}{
		{"unknown service", f.staff, uuid.New(), clock(10, 0), clock(11, 0), httperr.CodeNotFound},
		{"service of another salon", f.staff, foreignService, clock(10, 0), clock(11, 0), httperr.CodeNotFound},
		{"inactive service", f.staff, retired, clock(10, 0), clock(11, 0), httperr.CodeNotFound},
		{"unknown staff", uuid.New(), f.service, clock(10, 0), clock(11, 0), httperr.CodeNotFound},
		{"inactive staff", inactive, f.service, clock(10, 0), clock(11, 0), httperr.CodeNotFound},
		{"before shift", f.staff, f.service, clock(8, 0), clock(9, 0), httperr.CodeOutsideWorkingHours},
		{"past shift", f.staff, f.service, clock(16, 30), clock(17, 30), httperr.CodeOutsideWorkingHours},
		{"over lunch", f.staff, f.service, clock(11, 30), clock(12, 30), httperr.CodeOutsideWorkingHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := book(tt.staff, tt.service, tt.start, tt.end)
			assert.Equal(t, tt.code, httperr.CodeOf(err))
		})
	}

	assert.NoError(t, book(f.staff, f.service, clock(13, 0), clock(14, 0)))

	_, err := NewCreateReservation(f.deps).Execute(context.Background(), CreateReservationInput{
		SalonID: uuid.New(), CustomerID: f.customer, StaffID: f.staff, ServiceID: f.service,
		StartTime: clock(15, 0), EndTime: clock(16, 0),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), "unknown salon")

	page, err := NewSearchReservations(f.repo).Execute(context.Background(), domain.Criteria{}, all, dto.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total, "rejected bookings leave nothing behind")
}

func TestUpdateChecksCatalogue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	update := NewUpdateReservation(f.deps)

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)

	start, end := clock(19, 30), clock(20, 30)
	_, err = update.Execute(ctx, UpdateReservationInput{
		ID:      a.ID,
		Changes: domain.Changes{StartTime: &start, EndTime: &end},
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeOutsideWorkingHours), "past closing")

	unknown := uuid.New()
	_, err = update.Execute(ctx, UpdateReservationInput{ID: a.ID, Changes: domain.Changes{ServiceID: &unknown}})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	bia := f.addStaff("Bia")
	moved, err := update.Execute(ctx, UpdateReservationInput{ID: a.ID, Changes: domain.Changes{StaffID: &bia}})
	require.NoError(t, err)
	assert.Equal(t, bia, moved.StaffID)
}

func TestScopedAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := uuid.New()

	a, err := f.create(t, f.staff, clock(10, 0), clock(11, 0))
	require.NoError(t, err)

	stranger := uuid.New()
	otherSalon := uuid.New()
	outsiders := map[string]domain.Scope{
		"another customer": {CustomerID: &stranger},
		"another salon":    {SalonID: &otherSalon},
	}
	for name, scope := range outsiders {
		_, err := NewGetReservation(f.repo).Execute(ctx, a.ID, scope)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), name)

		_, err = NewConfirmReservation(f.deps).Execute(ctx, a.ID, actor, scope)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), name)

		_, err = NewCancelReservation(f.deps).Execute(ctx, a.ID, "", actor, scope)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), name)

		notes := "moved"
		_, err = NewUpdateReservation(f.deps).Execute(ctx, UpdateReservationInput{
			ID: a.ID, Changes: domain.Changes{Notes: &notes}, ActorID: actor, Scope: scope,
		})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), name)
	}

	stored, err := NewGetReservation(f.repo).Execute(ctx, a.ID, domain.Scope{CustomerID: &f.customer})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status.Name(), "outsiders changed nothing")

	_, err = NewConfirmReservation(f.deps).Execute(ctx, a.ID, actor, domain.Scope{SalonID: &f.salon})
	assert.NoError(t, err)

	page, err := NewSearchReservations(f.repo).Execute(ctx, domain.Criteria{CustomerID: &f.customer},
		domain.Scope{CustomerID: &stranger}, dto.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "a customer filter cannot widen the scope")

	_, err = NewCreateReservation(f.deps).Execute(ctx, CreateReservationInput{
		SalonID: f.salon, CustomerID: f.customer, StaffID: f.staff, ServiceID: f.service,
		StartTime: clock(12, 0), EndTime: clock(13, 0),
		Scope: domain.Scope{SalonID: &otherSalon},
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound), "staff book only in their salon")
}
