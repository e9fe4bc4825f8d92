package utils

import (
	"testing"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWeeklySchedule(t *testing.T) {
	tests := []struct {
		name    string
		days    []domain.DayConfig
		wantErr bool
	}{
		{"valid", []domain.DayConfig{{Day: 0, Intervals: []domain.WorkInterval{{Start: 8, End: 12}, {Start: 14, End: 23}}}}, false},
		{"day without intervals", []domain.DayConfig{{Day: 3}}, false},
		{"empty", nil, true},
		{"weekday out of range", []domain.DayConfig{{Day: 7}}, true},
		{"negative weekday", []domain.DayConfig{{Day: -1}}, true},
		{"duplicate weekday", []domain.DayConfig{{Day: 1}, {Day: 1}}, true},
		{"start equals end", []domain.DayConfig{{Day: 1, Intervals: []domain.WorkInterval{{Start: 9, End: 9}}}}, true},
		{"end past 23", []domain.DayConfig{{Day: 1, Intervals: []domain.WorkInterval{{Start: 20, End: 24}}}}, true},
		{"location without type", []domain.DayConfig{{Day: 1, Intervals: []domain.WorkInterval{{Start: 8, End: 9, Locations: []domain.Location{{Name: "x"}}}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeeklySchedule(&domain.WeeklySchedule{Days: tt.days})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBookingReference(t *testing.T) {
	sub, single, empty := "sub_1", "sw_1", ""

	assert.NoError(t, ValidateBookingReference(&sub, nil))
	assert.NoError(t, ValidateBookingReference(nil, &single))
	assert.Error(t, ValidateBookingReference(nil, nil))
	assert.Error(t, ValidateBookingReference(&empty, nil))
	assert.Error(t, ValidateBookingReference(&sub, &single))
}

func TestAppointmentTransitions(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	a := &domain.Appointment{Status: domain.AppointmentPending, PaymentStatus: domain.PaymentPending}
	assert.ErrorIs(t, CompleteAppointment(a, now), ErrInvalidTransition)

	require.NoError(t, AcceptAppointment(a, now))
	assert.Equal(t, domain.AppointmentAccepted, a.Status)
	assert.Equal(t, now, *a.AcceptedAt)
	assert.ErrorIs(t, AcceptAppointment(a, now), ErrInvalidTransition)
	assert.ErrorIs(t, RejectAppointment(a, "busy", now), ErrInvalidTransition)

	require.NoError(t, MarkAppointmentPaid(a, now))
	assert.Equal(t, domain.PaymentPaid, a.PaymentStatus)
	assert.ErrorIs(t, MarkAppointmentPaid(a, now), ErrInvalidTransition)

	require.NoError(t, CompleteAppointment(a, now))
	assert.Equal(t, domain.AppointmentCompleted, a.Status)
	assert.NotNil(t, a.CompletedAt)
}

func TestRejectAppointmentAppendsReason(t *testing.T) {
	now := time.Now()

	a := &domain.Appointment{Status: domain.AppointmentPending, Notes: "bring gloves"}
	require.NoError(t, RejectAppointment(a, "  travelling  ", now))
	assert.Equal(t, domain.AppointmentRejected, a.Status)
	assert.Equal(t, "bring gloves\n[REJECTED]: travelling", a.Notes)
	assert.ErrorIs(t, MarkAppointmentPaid(a, now), ErrInvalidTransition)

	b := &domain.Appointment{Status: domain.AppointmentPending}
	require.NoError(t, RejectAppointment(b, "sick", now))
	assert.Equal(t, "[REJECTED]: sick", b.Notes)
}
