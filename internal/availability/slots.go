package availability

import (
	"fmt"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

// Compute returns the start times, formatted HH:MM, at which an appointment of
// durationMinutes can be booked on date. date is taken as a calendar day in its
// own location and now is compared in that same location.
//
// A slot survives when it fits whole inside one working interval of the day,
// does not overlap any pending or accepted appointment and lies in the future.
// Slots come back in generation order: interval order, then chronological.
func Compute(schedule *domain.WeeklySchedule, booked []*domain.Appointment, date time.Time, durationMinutes int, now time.Time) ([]string, error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}

	intervals, err := dayIntervals(schedule, date.Weekday())
	if err != nil {
		return nil, err
	}

	loc := date.Location()
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	now = now.In(loc)
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)

	isToday := day.Equal(today)
	if !isToday && !day.After(today) {
		return []string{}, nil
	}

	length := time.Duration(durationMinutes) * time.Minute
	slots := make([]string, 0)
	for _, minute := range candidates(intervals) {
		if !fits(intervals, minute, durationMinutes) {
			continue
		}

		// time.Date normalises the minute overflow into hours
		start := time.Date(y, m, d, 0, minute, 0, 0, loc)
		end := start.Add(length)
		if overlapsAny(booked, start, end) {
			continue
		}
		if isToday && !start.After(now) {
			continue
		}

		slots = append(slots, formatMinute(minute))
	}

	return slots, nil
}

func dayIntervals(schedule *domain.WeeklySchedule, weekday time.Weekday) ([]domain.WorkInterval, error) {
	if schedule == nil || len(schedule.Days) == 0 {
		return nil, ErrScheduleNotFound
	}

	// time.Weekday and the stored day index share the 0 = Sunday convention
	dc, ok := schedule.DayConfig(int(weekday))
	if !ok || len(dc.Intervals) == 0 {
		return nil, ErrNoIntervalsForDay
	}

	return dc.Intervals, nil
}

// candidates lists minute-of-day offsets at every half hour of every interval,
// each offset at most once.
func candidates(intervals []domain.WorkInterval) []int {
	step := int(SlotStep / time.Minute)
	seen := make(map[int]struct{})
	out := make([]int, 0)

	add := func(minute int) {
		if _, ok := seen[minute]; ok {
			return
		}
		seen[minute] = struct{}{}
		out = append(out, minute)
	}

	for _, in := range intervals {
		for hour := in.Start; hour < in.End; hour++ {
			add(hour * 60)
			if hour*60+step < in.End*60 {
				add(hour*60 + step)
			}
		}
	}

	return out
}

// fits reports whether [minute, minute+duration] lies inside a single interval.
func fits(intervals []domain.WorkInterval, minute, duration int) bool {
	for _, in := range intervals {
		if minute >= in.Start*60 && minute+duration <= in.End*60 {
			return true
		}
	}
	return false
}

func overlapsAny(booked []*domain.Appointment, start, end time.Time) bool {
	for _, a := range booked {
		if a == nil || !a.Status.Blocks() {
			continue
		}
		if start.Before(a.End()) && end.After(a.Date) {
			return true
		}
	}
	return false
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
