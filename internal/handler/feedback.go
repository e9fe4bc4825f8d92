package handler

import (
	"net/http"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"max=120"`
		Email      string `json:"email" validate:"omitempty,email"`
		Experience string `json:"experience" validate:"max=2000"`
		Liked      string `json:"liked" validate:"max=2000"`
		Disliked   string `json:"disliked" validate:"max=2000"`
		Bug        string `json:"bug" validate:"max=2000"`
		Navigation string `json:"navigation" validate:"max=2000"`
		Recommend  string `json:"recommend" validate:"max=2000"`
		Suggestion string `json:"suggestion" validate:"max=2000"`
		Features   string `json:"features" validate:"max=2000"`
		Usability  string `json:"usability" validate:"max=2000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	f := &domain.Feedback{
		Name:       req.Name,
		Email:      req.Email,
		Experience: req.Experience,
		Liked:      req.Liked,
		Disliked:   req.Disliked,
		Bug:        req.Bug,
		Navigation: req.Navigation,
		Recommend:  req.Recommend,
		Suggestion: req.Suggestion,
		Features:   req.Features,
		Usability:  req.Usability,
	}
	if err := h.repository.CreateFeedback(r.Context(), f); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "feedback sent", f)
}

func (h *Handler) GetAllFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.repository.GetAllFeedback(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "feedback loaded", feedback)
}
