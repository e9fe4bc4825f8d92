package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

// ScheduleStore returns sql.ErrNoRows when the trainer has no schedule.
type ScheduleStore interface {
	GetWeeklySchedule(ctx context.Context, trainerID string) (*domain.WeeklySchedule, error)
}

// AppointmentStore lists the pending and accepted appointments of a trainer
// starting in [from, to).
type AppointmentStore interface {
	ListBlockingAppointments(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Appointment, error)
}

type Engine struct {
	schedules    ScheduleStore
	appointments AppointmentStore
	loc          *time.Location
	now          func() time.Time
}

// NewEngine builds an engine that interprets dates in loc. A nil now uses time.Now.
func NewEngine(schedules ScheduleStore, appointments AppointmentStore, loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	return &Engine{
		schedules:    schedules,
		appointments: appointments,
		loc:          loc,
		now:          now,
	}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// AvailableSlots validates the request, loads the trainer's schedule and the
// blocking appointments of that day and returns the free start times.
func (e *Engine) AvailableSlots(ctx context.Context, trainerID string, date string, durationMinutes int) ([]string, error) {
	return e.slots(ctx, trainerID, date, durationMinutes, nil)
}

func (e *Engine) slots(ctx context.Context, trainerID string, date string, durationMinutes int, ignore []string) ([]string, error) {
	day, err := ParseDate(date, e.loc)
	if err != nil {
		return nil, err
	}
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}

	schedule, err := e.schedules.GetWeeklySchedule(ctx, trainerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrScheduleNotFound):
			return nil, ErrScheduleNotFound
		default:
			return nil, fmt.Errorf("availability: load schedule: %w", err)
		}
	}

	if _, err := dayIntervals(schedule, day.Weekday()); err != nil {
		return nil, err
	}

	booked, err := e.appointments.ListBlockingAppointments(ctx, trainerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("availability: load appointments: %w", err)
	}

	if len(ignore) > 0 {
		booked = slices.DeleteFunc(booked, func(a *domain.Appointment) bool {
			return slices.Contains(ignore, a.ID)
		})
	}

	return Compute(schedule, booked, day, durationMinutes, e.now())
}

// IsAvailable reports whether an appointment of durationMinutes may start at
// start. Appointments whose id is in ignore do not count as booked, which lets
// an appointment be moved within its own time.
func (e *Engine) IsAvailable(ctx context.Context, trainerID string, start time.Time, durationMinutes int, ignore ...string) (bool, error) {
	start = start.In(e.loc)
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return false, nil
	}

	slots, err := e.slots(ctx, trainerID, start.Format(DateLayout), durationMinutes, ignore)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return slices.Contains(slots, start.Format(TimeLayout)), nil
}
