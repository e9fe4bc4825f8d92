package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err error
}

func (f failingStore) GetWeeklySchedule(ctx context.Context, trainerID string) (*domain.WeeklySchedule, error) {
	return nil, f.err
}

func (f failingStore) ListBlockingAppointments(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Appointment, error) {
	return nil, f.err
}

func newTestEngine(t *testing.T, now string) (*Engine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	store.PutSchedule(wednesdaySchedule())
	clock := at(t, now)
	return NewEngine(store, store, brt, func() time.Time { return clock }), store
}

func TestEngineAvailableSlots(t *testing.T) {
	engine, store := newTestEngine(t, "2026-10-12 10:00")
	store.AddAppointment(&domain.Appointment{
		TrainerID: "trainer-1", Date: at(t, "2026-10-14 08:30"), Duration: 30, Status: domain.AppointmentAccepted,
	})
	// another trainer and another day must not block
	store.AddAppointment(&domain.Appointment{
		TrainerID: "trainer-2", Date: at(t, "2026-10-14 08:00"), Duration: 30, Status: domain.AppointmentAccepted,
	})
	store.AddAppointment(&domain.Appointment{
		TrainerID: "trainer-1", Date: at(t, "2026-10-21 09:00"), Duration: 30, Status: domain.AppointmentPending,
	})

	got, err := engine.AvailableSlots(context.Background(), "trainer-1", wednesday, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "09:30"}, got)

	schedules, appointments := store.Calls()
	assert.Equal(t, 1, schedules)
	assert.Equal(t, 1, appointments)
}

func TestEngineValidationSkipsLookups(t *testing.T) {
	engine, store := newTestEngine(t, "2026-10-12 10:00")

	_, err := engine.AvailableSlots(context.Background(), "trainer-1", "2026-14-01", 30)
	assert.ErrorIs(t, err, ErrInvalidDate)

	for _, d := range []int{0, 600} {
		_, err = engine.AvailableSlots(context.Background(), "trainer-1", wednesday, d)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}

	schedules, appointments := store.Calls()
	assert.Zero(t, schedules)
	assert.Zero(t, appointments)
}

func TestEngineNotFound(t *testing.T) {
	engine, store := newTestEngine(t, "2026-10-12 10:00")

	_, err := engine.AvailableSlots(context.Background(), "unknown", wednesday, 30)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	_, err = engine.AvailableSlots(context.Background(), "trainer-1", "2026-10-15", 30)
	assert.ErrorIs(t, err, ErrNoIntervalsForDay)

	_, appointments := store.Calls()
	assert.Zero(t, appointments)
}

func TestEngineStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	engine := NewEngine(failingStore{err: boom}, failingStore{err: boom}, brt, nil)

	_, err := engine.AvailableSlots(context.Background(), "trainer-1", wednesday, 30)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err))

	store := NewMemoryStore()
	store.PutSchedule(wednesdaySchedule())
	engine = NewEngine(store, failingStore{err: boom}, brt, func() time.Time { return at(t, "2026-10-12 10:00") })

	_, err = engine.AvailableSlots(context.Background(), "trainer-1", wednesday, 30)
	assert.ErrorIs(t, err, boom)
}

func TestEngineIsAvailable(t *testing.T) {
	engine, store := newTestEngine(t, "2026-10-12 10:00")
	store.AddAppointment(&domain.Appointment{
		TrainerID: "trainer-1", Date: at(t, "2026-10-14 08:30"), Duration: 30, Status: domain.AppointmentPending,
	})
	ctx := context.Background()

	ok, err := engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 08:00"), 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 08:30"), 30)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 08:15"), 30)
	require.NoError(t, err)
	assert.False(t, ok)

	// the same instant expressed in UTC
	ok, err = engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 09:00").UTC(), 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-15 09:00"), 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngineIsAvailableIgnoresOwnAppointment(t *testing.T) {
	engine, store := newTestEngine(t, "2026-10-12 10:00")
	store.AddAppointment(&domain.Appointment{
		ID: "a1", TrainerID: "trainer-1", Date: at(t, "2026-10-14 08:00"), Duration: 60, Status: domain.AppointmentAccepted,
	})
	ctx := context.Background()

	ok, err := engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 08:30"), 60)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.IsAvailable(ctx, "trainer-1", at(t, "2026-10-14 08:30"), 60, "a1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngineConcurrentCalls(t *testing.T) {
	engine, _ := newTestEngine(t, "2026-10-12 10:00")

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = engine.AvailableSlots(context.Background(), "trainer-1", wednesday, 30)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, r)
	}
}
