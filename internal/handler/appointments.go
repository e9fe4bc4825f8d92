package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/repository"
	"github.com/fitmatch-dev/marketplace/backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errBookingInProgress = errors.New("another booking for this trainer is in progress")

// withTrainerDayLock runs fn while holding the booking lock of trainerID on the
// calendar day of start.
func (h *Handler) withTrainerDayLock(ctx context.Context, trainerID string, start time.Time, fn func() error) error {
	key := fmt.Sprintf("appointment:%s:%s", trainerID, start.In(h.availability.Location()).Format(availability.DateLayout))

	token, ok, err := h.locker.Lock(ctx, key, time.Duration(h.config.Scheduling.LockTTL)*time.Second)
	if err != nil {
		return err
	}
	if !ok {
		return errBookingInProgress
	}
	defer func() {
		// the request context may already be gone
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.locker.Unlock(ctx, key, token); err != nil {
			slog.Warn("cannot release booking lock", "key", key, "error", err)
		}
	}()

	return fn()
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrainerID       string    `json:"trainerId" validate:"required,uuid"`
		StudentID       string    `json:"studentId" validate:"omitempty,uuid"`
		Location        string    `json:"location" validate:"required"`
		Date            time.Time `json:"date" validate:"required"`
		Duration        int       `json:"duration" validate:"required,min=1,max=480"`
		Notes           string    `json:"notes" validate:"max=1000"`
		SubscriptionID  *string   `json:"subscriptionId"`
		SingleWorkoutID *string   `json:"singleWorkoutId" validate:"omitnil,uuid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateBookingReference(req.SubscriptionID, req.SingleWorkoutID); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sub := r.Context().Value(SubCtxKey).(string)
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))

	// students book for themselves, trainers and admins may book on behalf of a student
	studentID := sub
	if role != domain.RoleStudent && req.StudentID != "" {
		studentID = req.StudentID
	}
	if studentID == req.TrainerID {
		h.badRequest(w, r, errors.New("a trainer cannot book themselves"))
		return
	}

	trainer, err := h.repository.GetUserByID(r.Context(), req.TrainerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "trainer not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if trainer.Role != domain.RoleTrainer || !trainer.IsActive {
		h.notFound(w, r, "trainer not found")
		return
	}

	if req.SingleWorkoutID != nil {
		sw, err := h.repository.GetSingleWorkoutByID(r.Context(), *req.SingleWorkoutID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			h.internalServerError(w, r, err)
			return
		}
		if err != nil || sw.TrainerID != trainer.ID || !sw.IsActive {
			h.badRequest(w, r, errors.New("single workout is not offered by this trainer"))
			return
		}
	}

	now := time.Now()
	a := &domain.Appointment{
		TrainerID:       req.TrainerID,
		StudentID:       studentID,
		Location:        req.Location,
		Date:            req.Date,
		Duration:        req.Duration,
		Notes:           req.Notes,
		Status:          domain.AppointmentPending,
		PaymentStatus:   domain.PaymentPending,
		SubscriptionID:  req.SubscriptionID,
		SingleWorkoutID: req.SingleWorkoutID,
	}
	// a subscription is charged up front
	if a.SubscriptionID != nil {
		a.PaymentStatus = domain.PaymentPaid
		a.PaidAt = &now
	}

	err = h.withTrainerDayLock(r.Context(), a.TrainerID, a.Date, func() error {
		free, err := h.availability.IsAvailable(r.Context(), a.TrainerID, a.Date, a.Duration)
		if err != nil {
			return err
		}
		if !free {
			return repository.ErrAppointmentConflict
		}
		return h.repository.CreateAppointment(r.Context(), a)
	})
	if err != nil {
		switch {
		case errors.Is(err, errBookingInProgress):
			h.conflict(w, r, "another booking for this trainer is in progress, please retry")
		case errors.Is(err, repository.ErrAppointmentConflict):
			h.conflict(w, r, "this time is not available")
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "trainer not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyAppointment(r.Context(), domain.MailTypeAppointmentRequested, a, a.TrainerID, a.StudentID, "")

	h.createdResponse(w, r, "appointment requested", a)
}

func (h *Handler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.repository.GetAllAppointments(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "appointments loaded", appointments)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)
	h.successResponse(w, r, "appointment loaded", a)
}

// GetAppointmentsByMonth lists a user's appointments, as trainer or student, in one calendar month.
func (h *Handler) GetAppointmentsByMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1970 || year > 9999 {
		h.badRequest(w, r, errors.New("invalid year"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		h.badRequest(w, r, errors.New("month must be between 1 and 12"))
		return
	}

	userID := chi.URLParam(r, "userId")
	if err := uuid.Validate(userID); err != nil {
		h.notFound(w, r, "user not found")
		return
	}
	sub := r.Context().Value(SubCtxKey).(string)
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	if userID != sub && role != domain.RoleAdmin {
		h.forbidden(w, r, "you can only list your own appointments")
		return
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, h.availability.Location())
	to := from.AddDate(0, 1, 0)

	appointments, err := h.repository.ListUserAppointments(r.Context(), userID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "appointments loaded", appointments)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	var req struct {
		Location *string    `json:"location" validate:"omitnil,min=1"`
		Date     *time.Time `json:"date"`
		Duration *int       `json:"duration" validate:"omitnil,min=1,max=480"`
		Notes    *string    `json:"notes" validate:"omitnil,max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Location != nil {
		a.Location = *req.Location
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}

	moved := (req.Date != nil && !req.Date.Equal(a.Date)) || (req.Duration != nil && *req.Duration != a.Duration)
	if !moved {
		if err := h.repository.UpdateAppointment(r.Context(), a); err != nil {
			h.appointmentWriteError(w, r, err)
			return
		}
		h.successResponse(w, r, "appointment updated", a)
		return
	}

	if !a.Status.Blocks() {
		h.badRequest(w, r, fmt.Errorf("a %s appointment cannot be rescheduled", a.Status))
		return
	}
	if req.Date != nil {
		a.Date = *req.Date
	}
	if req.Duration != nil {
		a.Duration = *req.Duration
	}
	// a new time needs a new confirmation from the trainer
	if a.Status == domain.AppointmentAccepted {
		a.Status = domain.AppointmentPending
		a.AcceptedAt = nil
	}

	err := h.withTrainerDayLock(r.Context(), a.TrainerID, a.Date, func() error {
		free, err := h.availability.IsAvailable(r.Context(), a.TrainerID, a.Date, a.Duration, a.ID)
		if err != nil {
			return err
		}
		if !free {
			return repository.ErrAppointmentConflict
		}
		return h.repository.RescheduleAppointment(r.Context(), a)
	})
	if err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}

	h.notifyAppointment(r.Context(), domain.MailTypeAppointmentRequested, a, a.TrainerID, a.StudentID, "")

	h.successResponse(w, r, "appointment rescheduled", a)
}

func (h *Handler) appointmentWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBookingInProgress):
		h.conflict(w, r, "another booking for this trainer is in progress, please retry")
	case errors.Is(err, repository.ErrAppointmentConflict):
		h.conflict(w, r, "this time is not available")
	case errors.Is(err, utils.ErrInvalidTransition):
		h.badRequest(w, r, err)
	case errors.Is(err, sql.ErrNoRows):
		h.conflict(w, r, "appointment changed meanwhile, please retry")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	if err := h.repository.DeleteAppointment(r.Context(), a.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "appointment not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "appointment deleted", nil)
}

func (h *Handler) AcceptAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	if err := utils.AcceptAppointment(a, time.Now()); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}
	if err := h.repository.UpdateAppointment(r.Context(), a); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}

	h.notifyAppointment(r.Context(), domain.MailTypeAppointmentAccepted, a, a.StudentID, a.TrainerID, "")

	h.successResponse(w, r, "appointment accepted", a)
}

func (h *Handler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	var req struct {
		Reason string `json:"reason" validate:"max=500"`
	}

	// the reason is optional, so is the body
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.RejectAppointment(a, req.Reason, time.Now()); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}
	if err := h.repository.UpdateAppointment(r.Context(), a); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}

	h.notifyAppointment(r.Context(), domain.MailTypeAppointmentRejected, a, a.StudentID, a.TrainerID, req.Reason)

	h.successResponse(w, r, "appointment rejected", a)
}

func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	if err := utils.CompleteAppointment(a, time.Now()); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}
	if err := h.repository.UpdateAppointment(r.Context(), a); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "appointment completed", a)
}

func (h *Handler) MarkAppointmentPaid(w http.ResponseWriter, r *http.Request) {
	a := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	if err := utils.MarkAppointmentPaid(a, time.Now()); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}
	if err := h.repository.UpdateAppointment(r.Context(), a); err != nil {
		h.appointmentWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "appointment marked as paid", a)
}
