package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentAccepted  AppointmentStatus = "accepted"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCompleted AppointmentStatus = "completed"
)

// BlockingStatuses are the statuses that occupy a trainer's time.
var BlockingStatuses = []AppointmentStatus{AppointmentPending, AppointmentAccepted}

// Blocks reports whether an appointment in this status makes its time range unavailable.
func (s AppointmentStatus) Blocks() bool {
	return s == AppointmentPending || s == AppointmentAccepted
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// DefaultAppointmentDuration is assumed for stored appointments without a duration.
const DefaultAppointmentDuration = 60

type Appointment struct {
	ID              string            `json:"id"`
	TrainerID       string            `json:"trainerId"`
	StudentID       string            `json:"studentId"`
	Location        string            `json:"location"`
	Date            time.Time         `json:"date"`
	Duration        int               `json:"duration"` // minutes
	Notes           string            `json:"notes"`
	Status          AppointmentStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	SubscriptionID  *string           `json:"subscriptionId"`
	SingleWorkoutID *string           `json:"singleWorkoutId"`
	AcceptedAt      *time.Time        `json:"acceptedAt"`
	RejectedAt      *time.Time        `json:"rejectedAt"`
	CompletedAt     *time.Time        `json:"completedAt"`
	PaidAt          *time.Time        `json:"paidAt"`
	CreatedAt       time.Time         `json:"createdAt"`
	Version         int32             `json:"-"`
}

// End returns the instant the appointment stops occupying the trainer.
func (a *Appointment) End() time.Time {
	d := a.Duration
	if d <= 0 {
		d = DefaultAppointmentDuration
	}
	return a.Date.Add(time.Duration(d) * time.Minute)
}
