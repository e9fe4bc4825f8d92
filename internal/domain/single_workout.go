package domain

import (
	"fmt"
	"time"
)

// MinSingleWorkoutPrice is exclusive, in cents.
const MinSingleWorkoutPrice = 1000

// SingleWorkout is a class a trainer sells one session at a time. Booking one
// references it through Appointment.SingleWorkoutID.
type SingleWorkout struct {
	ID              string    `json:"id"`
	TrainerID       string    `json:"trainerId"`
	TrainerUsername string    `json:"trainerUsername"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int64     `json:"price"` // cents
	Category        *string   `json:"category"`
	Duration        *int      `json:"duration"` // minutes
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Version         int32     `json:"-"`
}

// PriceFormatted renders Price in reais with two decimals, e.g. "49.90".
func (w *SingleWorkout) PriceFormatted() string {
	return FormatCents(w.Price)
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// SingleWorkoutCategory counts a trainer's active single workouts in one category.
type SingleWorkoutCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
