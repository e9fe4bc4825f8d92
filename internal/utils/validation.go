package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

func ValidateWeeklySchedule(s *domain.WeeklySchedule) error {
	if len(s.Days) == 0 {
		return errors.New("schedule must configure at least one day")
	}

	seen := make(map[int]bool)
	for _, d := range s.Days {
		if d.Day < 0 || d.Day > 6 {
			return fmt.Errorf("day %d is not a weekday (0 = Sunday ... 6 = Saturday)", d.Day)
		}
		if seen[d.Day] {
			return fmt.Errorf("day %d is configured more than once", d.Day)
		}
		seen[d.Day] = true

		for _, in := range d.Intervals {
			if in.Start < 0 || in.End > 23 || in.Start >= in.End {
				return fmt.Errorf("day %d: interval %d-%d must satisfy 0 <= start < end <= 23", d.Day, in.Start, in.End)
			}
			for _, loc := range in.Locations {
				if loc.Type == "" {
					return fmt.Errorf("day %d: every location needs a type", d.Day)
				}
			}
		}
	}

	return nil
}

// ValidateBookingReference requires exactly one of a subscription or a single workout.
func ValidateBookingReference(subscriptionID, singleWorkoutID *string) error {
	hasSub := subscriptionID != nil && *subscriptionID != ""
	hasSingle := singleWorkoutID != nil && *singleWorkoutID != ""
	if hasSub == hasSingle {
		return errors.New("exactly one of subscriptionId or singleWorkoutId is required")
	}
	return nil
}

var ErrInvalidTransition = errors.New("invalid appointment status transition")

func AcceptAppointment(a *domain.Appointment, now time.Time) error {
	if a.Status != domain.AppointmentPending {
		return fmt.Errorf("%w: cannot accept a %s appointment", ErrInvalidTransition, a.Status)
	}
	a.Status = domain.AppointmentAccepted
	a.AcceptedAt = &now
	return nil
}

func RejectAppointment(a *domain.Appointment, reason string, now time.Time) error {
	if a.Status != domain.AppointmentPending {
		return fmt.Errorf("%w: cannot reject a %s appointment", ErrInvalidTransition, a.Status)
	}
	a.Status = domain.AppointmentRejected
	a.RejectedAt = &now
	if reason = strings.TrimSpace(reason); reason != "" {
		a.Notes = strings.TrimLeft(a.Notes+"\n[REJECTED]: "+reason, "\n")
	}
	return nil
}

func CompleteAppointment(a *domain.Appointment, now time.Time) error {
	if a.Status != domain.AppointmentAccepted {
		return fmt.Errorf("%w: cannot complete a %s appointment", ErrInvalidTransition, a.Status)
	}
	a.Status = domain.AppointmentCompleted
	a.CompletedAt = &now
	return nil
}

func MarkAppointmentPaid(a *domain.Appointment, now time.Time) error {
	if a.PaymentStatus == domain.PaymentPaid {
		return fmt.Errorf("%w: appointment is already paid", ErrInvalidTransition)
	}
	if a.Status == domain.AppointmentRejected {
		return fmt.Errorf("%w: cannot pay a rejected appointment", ErrInvalidTransition)
	}
	a.PaymentStatus = domain.PaymentPaid
	a.PaidAt = &now
	return nil
}
