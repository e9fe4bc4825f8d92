package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/utils"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// queryInt reads a positive integer query parameter, def when absent.
func queryInt(q url.Values, key string, def, max int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, errors.New(key + " must be a whole number between 1 and " + strconv.Itoa(max))
	}
	return n, nil
}

// GetPartnerGyms lists active partner gyms one page at a time.
func (h *Handler) GetPartnerGyms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q, "page", 1, 1<<20)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	limit, err := queryInt(q, "limit", defaultPageLimit, maxPageLimit)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	f := domain.PartnerGymFilter{
		City:     strings.TrimSpace(q.Get("city")),
		State:    strings.ToUpper(strings.TrimSpace(q.Get("state"))),
		Search:   strings.TrimSpace(q.Get("search")),
		Services: utils.SplitServices(q["services"]...),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	gyms, total, err := h.repository.ListPartnerGyms(r.Context(), f)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "partner gyms loaded", struct {
		PartnerGyms []*domain.PartnerGym `json:"partnerGyms"`
		Pagination  Pagination           `json:"pagination"`
	}{
		PartnerGyms: gyms,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	})
}

// GetNearbyPartnerGyms lists active gyms of one city.
func (h *Handler) GetNearbyPartnerGyms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	city := strings.TrimSpace(q.Get("city"))
	state := strings.ToUpper(strings.TrimSpace(q.Get("state")))
	if city == "" || state == "" {
		h.badRequest(w, r, errors.New("city and state are required"))
		return
	}
	limit, err := queryInt(q, "limit", defaultPageLimit, maxPageLimit)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	gyms, _, err := h.repository.ListPartnerGyms(r.Context(), domain.PartnerGymFilter{City: city, State: state, Limit: limit})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "partner gyms loaded", gyms)
}

// GetPartnerGymsByServices lists active gyms offering any of the comma
// separated services.
func (h *Handler) GetPartnerGymsByServices(w http.ResponseWriter, r *http.Request) {
	services := utils.SplitServices(r.URL.Query()["services"]...)
	if len(services) == 0 {
		h.badRequest(w, r, errors.New("services is required"))
		return
	}

	gyms, _, err := h.repository.ListPartnerGyms(r.Context(), domain.PartnerGymFilter{Services: services, Limit: maxPageLimit})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "partner gyms loaded", struct {
		PartnerGyms      []*domain.PartnerGym `json:"partnerGyms"`
		SearchedServices []string             `json:"searchedServices"`
	}{gyms, services})
}

func (h *Handler) GetPartnerGym(w http.ResponseWriter, r *http.Request) {
	g := r.Context().Value(PartnerGymCtx).(*domain.PartnerGym)
	h.successResponse(w, r, "partner gym loaded", g)
}

func (h *Handler) CreatePartnerGym(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string   `json:"name" validate:"required,max=120"`
		Street            string   `json:"street" validate:"required"`
		StreetNumber      string   `json:"streetNumber" validate:"required"`
		Neighborhood      string   `json:"neighborhood" validate:"required"`
		City              string   `json:"city" validate:"required"`
		State             string   `json:"state" validate:"required"`
		ZipCode           string   `json:"zipCode" validate:"required"`
		Complementary     string   `json:"complementary"`
		AvailableServices []string `json:"availableServices"`
		ContactPhone      string   `json:"contactPhone"`
		ContactEmail      string   `json:"contactEmail" validate:"omitempty,email"`
		ContactWebsite    string   `json:"contactWebsite" validate:"omitempty,url"`
		PhotoURL          string   `json:"photoUrl" validate:"omitempty,url"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	g := &domain.PartnerGym{
		Name:              strings.TrimSpace(req.Name),
		Street:            req.Street,
		StreetNumber:      req.StreetNumber,
		Neighborhood:      req.Neighborhood,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Complementary:     req.Complementary,
		AvailableServices: req.AvailableServices,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
		ContactWebsite:    req.ContactWebsite,
		PhotoURL:          req.PhotoURL,
	}
	if err := h.normalizePartnerGym(g); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreatePartnerGym(r.Context(), g); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "partner gym created", g)
}

func (h *Handler) normalizePartnerGym(g *domain.PartnerGym) error {
	utils.NormalizePartnerGym(g)
	if len(g.State) != 2 {
		return errors.New("state must be a two letter code")
	}
	if len(g.ZipCode) != 8 {
		return errors.New("zip code must have 8 digits")
	}
	return nil
}

func (h *Handler) UpdatePartnerGym(w http.ResponseWriter, r *http.Request) {
	g := r.Context().Value(PartnerGymCtx).(*domain.PartnerGym)

	var req struct {
		Name              *string   `json:"name" validate:"omitnil,min=1,max=120"`
		Street            *string   `json:"street" validate:"omitnil,min=1"`
		StreetNumber      *string   `json:"streetNumber" validate:"omitnil,min=1"`
		Neighborhood      *string   `json:"neighborhood" validate:"omitnil,min=1"`
		City              *string   `json:"city" validate:"omitnil,min=1"`
		State             *string   `json:"state" validate:"omitnil,min=1"`
		ZipCode           *string   `json:"zipCode" validate:"omitnil,min=1"`
		Complementary     *string   `json:"complementary"`
		AvailableServices *[]string `json:"availableServices"`
		ContactPhone      *string   `json:"contactPhone"`
		ContactEmail      *string   `json:"contactEmail" validate:"omitnil,email"`
		ContactWebsite    *string   `json:"contactWebsite" validate:"omitnil,url"`
		PhotoURL          *string   `json:"photoUrl" validate:"omitnil,url"`
		IsActive          *bool     `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&g.Name, req.Name)
	set(&g.Street, req.Street)
	set(&g.StreetNumber, req.StreetNumber)
	set(&g.Neighborhood, req.Neighborhood)
	set(&g.City, req.City)
	set(&g.State, req.State)
	set(&g.ZipCode, req.ZipCode)
	set(&g.Complementary, req.Complementary)
	set(&g.ContactPhone, req.ContactPhone)
	set(&g.ContactEmail, req.ContactEmail)
	set(&g.ContactWebsite, req.ContactWebsite)
	set(&g.PhotoURL, req.PhotoURL)
	if req.AvailableServices != nil {
		g.AvailableServices = *req.AvailableServices
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if err := h.normalizePartnerGym(g); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.savePartnerGym(w, r, g, "partner gym updated")
}

func (h *Handler) DeactivatePartnerGym(w http.ResponseWriter, r *http.Request) {
	g := r.Context().Value(PartnerGymCtx).(*domain.PartnerGym)
	g.IsActive = false
	h.savePartnerGym(w, r, g, "partner gym deactivated")
}

func (h *Handler) ActivatePartnerGym(w http.ResponseWriter, r *http.Request) {
	g := r.Context().Value(PartnerGymCtx).(*domain.PartnerGym)
	g.IsActive = true
	h.savePartnerGym(w, r, g, "partner gym activated")
}

func (h *Handler) savePartnerGym(w http.ResponseWriter, r *http.Request, g *domain.PartnerGym, msg string) {
	if err := h.repository.UpdatePartnerGym(r.Context(), g); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "partner gym changed meanwhile, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, msg, g)
}

func (h *Handler) DeletePartnerGym(w http.ResponseWriter, r *http.Request) {
	g := r.Context().Value(PartnerGymCtx).(*domain.PartnerGym)

	if err := h.repository.DeletePartnerGym(r.Context(), g.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "partner gym not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "partner gym deleted", nil)
}
