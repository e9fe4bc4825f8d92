package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/go-chi/chi/v5"
)

// GetAvailableTimes answers GET /appointments/horarios/date/{trainerId}/{date}?duration=minutes.
func (h *Handler) GetAvailableTimes(w http.ResponseWriter, r *http.Request) {
	trainerID := chi.URLParam(r, "trainerId")
	date := chi.URLParam(r, "date")

	raw := r.URL.Query().Get("duration")
	if raw == "" {
		h.badRequest(w, r, errors.New("duration is required"))
		return
	}
	duration, err := strconv.Atoi(raw)
	if err != nil {
		h.badRequest(w, r, errors.New("duration must be a whole number of minutes"))
		return
	}

	slots, err := h.availability.AvailableSlots(r.Context(), trainerID, date, duration)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidDate):
			h.badRequest(w, r, errors.New("invalid date, expected YYYY-MM-DD"))
		case errors.Is(err, availability.ErrInvalidDuration):
			h.badRequest(w, r, errors.New("duration must be between 1 and 480 minutes"))
		case errors.Is(err, availability.ErrScheduleNotFound):
			h.notFound(w, r, "schedule not found")
		case errors.Is(err, availability.ErrNoIntervalsForDay):
			h.notFound(w, r, "no working hours on this day")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "available times loaded", slots)
}
