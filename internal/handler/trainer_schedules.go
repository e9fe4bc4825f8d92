package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// UpsertTrainerSchedule replaces the calling trainer's whole weekly schedule.
func (h *Handler) UpsertTrainerSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days                  []domain.DayConfig             `json:"days" validate:"required,min=1,dive"`
		SavedLocations        []domain.Location              `json:"savedLocations" validate:"dive"`
		DefaultLocationConfig *domain.DefaultLocationConfig `json:"defaultLocationConfig"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule := &domain.WeeklySchedule{
		TrainerID:             r.Context().Value(SubCtxKey).(string),
		Days:                  req.Days,
		SavedLocations:        req.SavedLocations,
		DefaultLocationConfig: req.DefaultLocationConfig,
	}
	if schedule.SavedLocations == nil {
		schedule.SavedLocations = make([]domain.Location, 0)
	}

	if err := utils.ValidateWeeklySchedule(schedule); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertWeeklySchedule(r.Context(), schedule); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule saved", schedule)
}

func (h *Handler) GetTrainerSchedule(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "trainerUsername")

	trainer, err := h.repository.GetUserByUsername(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "trainer not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if trainer.Role != domain.RoleTrainer {
		h.notFound(w, r, "trainer not found")
		return
	}

	schedule, err := h.repository.GetWeeklySchedule(r.Context(), trainer.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "schedule not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule loaded", struct {
		*domain.WeeklySchedule
		AvailableLocations domain.AvailableLocations `json:"availableLocations"`
	}{
		WeeklySchedule:     schedule,
		AvailableLocations: schedule.AvailableLocations(),
	})
}
