package handler

import (
	"net/http"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

func (h *Handler) GetAllTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := h.repository.GetUsersByRole(r.Context(), domain.RoleTrainer)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "trainers loaded", trainers)
}
