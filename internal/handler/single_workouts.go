package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type singleWorkoutView struct {
	*domain.SingleWorkout
	PriceFormatted string `json:"priceFormatted"`
}

func viewSingleWorkout(sw *domain.SingleWorkout) singleWorkoutView {
	return singleWorkoutView{SingleWorkout: sw, PriceFormatted: sw.PriceFormatted()}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (h *Handler) CreateSingleWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrainerID   string  `json:"trainerId" validate:"omitempty,uuid"`
		Name        string  `json:"name" validate:"required,max=120"`
		Description string  `json:"description" validate:"required,max=2000"`
		Price       float64 `json:"price" validate:"required"`
		Category    *string `json:"category" validate:"omitnil,max=60"`
		Duration    *int    `json:"duration" validate:"omitnil,min=1,max=480"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	price, err := utils.PriceToCents(req.Price)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// trainers sell their own workouts, admins name the trainer
	trainerID := r.Context().Value(SubCtxKey).(string)
	if domain.Role(r.Context().Value(RoleCtxKey).(string)) == domain.RoleAdmin {
		if req.TrainerID == "" {
			h.badRequest(w, r, errors.New("trainerId is required"))
			return
		}
		trainerID = req.TrainerID
	}

	trainer, err := h.repository.GetUserByID(r.Context(), trainerID)
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
		h.badRequest(w, r, errors.New("single workouts belong to trainers"))
		return
	}

	sw := &domain.SingleWorkout{
		TrainerID:       trainer.ID,
		TrainerUsername: trainer.Username,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           price,
		Category:        trimmedOrNil(req.Category),
		Duration:        req.Duration,
	}
	if err := h.repository.CreateSingleWorkout(r.Context(), sw); err != nil {
		h.singleWorkoutWriteError(w, r, err)
		return
	}

	h.createdResponse(w, r, "single workout created", viewSingleWorkout(sw))
}

func (h *Handler) singleWorkoutWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.ConstraintName == "single_workouts_trainer_name_key":
		h.conflict(w, r, "a single workout with this name already exists")
	case errors.Is(err, sql.ErrNoRows):
		h.conflict(w, r, "single workout changed meanwhile, please retry")
	default:
		h.internalServerError(w, r, err)
	}
}

// GetTrainerSingleWorkouts lists a trainer's workouts, active ones unless ?isActive=false.
func (h *Handler) GetTrainerSingleWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	active := true
	if raw := q.Get("isActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.badRequest(w, r, errors.New("isActive must be true or false"))
			return
		}
		active = v
	}

	workouts, err := h.repository.ListTrainerSingleWorkouts(r.Context(), chi.URLParam(r, "username"), strings.TrimSpace(q.Get("category")), active)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	views := make([]singleWorkoutView, 0, len(workouts))
	for _, sw := range workouts {
		views = append(views, viewSingleWorkout(sw))
	}

	h.successResponse(w, r, "single workouts loaded", views)
}

func (h *Handler) GetSingleWorkoutCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repository.ListSingleWorkoutCategories(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "categories loaded", categories)
}

func (h *Handler) GetSingleWorkout(w http.ResponseWriter, r *http.Request) {
	sw := r.Context().Value(WorkoutCtx).(*domain.SingleWorkout)
	h.successResponse(w, r, "single workout loaded", viewSingleWorkout(sw))
}

func (h *Handler) UpdateSingleWorkout(w http.ResponseWriter, r *http.Request) {
	sw := r.Context().Value(WorkoutCtx).(*domain.SingleWorkout)

	var req struct {
		Name        *string  `json:"name" validate:"omitnil,min=1,max=120"`
		Description *string  `json:"description" validate:"omitnil,min=1,max=2000"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category" validate:"omitnil,max=60"`
		Duration    *int     `json:"duration" validate:"omitnil,min=1,max=480"`
		IsActive    *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Price != nil {
		price, err := utils.PriceToCents(*req.Price)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		sw.Price = price
	}
	if req.Name != nil {
		sw.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		sw.Description = *req.Description
	}
	if req.Category != nil {
		sw.Category = trimmedOrNil(req.Category)
	}
	if req.Duration != nil {
		sw.Duration = req.Duration
	}
	if req.IsActive != nil {
		sw.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateSingleWorkout(r.Context(), sw); err != nil {
		h.singleWorkoutWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "single workout updated", viewSingleWorkout(sw))
}

// DeleteSingleWorkout deletes the workout, or deactivates it while upcoming
// appointments still reference it.
func (h *Handler) DeleteSingleWorkout(w http.ResponseWriter, r *http.Request) {
	sw := r.Context().Value(WorkoutCtx).(*domain.SingleWorkout)

	deactivated, err := h.repository.RemoveSingleWorkout(r.Context(), sw.ID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "single workout not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	msg := "single workout deleted"
	if deactivated {
		msg = "single workout deactivated, it still has upcoming appointments"
	}
	h.successResponse(w, r, msg, map[string]bool{"deactivated": deactivated})
}
