package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/availability"
	"github.com/fitmatch-dev/marketplace/backend/internal/config"
	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
	"github.com/fitmatch-dev/marketplace/backend/internal/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

const trainerID = "6b0f8a8e-5b7c-4a57-9d7e-1f0d8f1f3a10"

func newTestHandler(t *testing.T) (*Handler, *availability.MemoryStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Scheduling.LockTTL = 10

	store := availability.NewMemoryStore()
	store.PutSchedule(&domain.WeeklySchedule{
		TrainerID: trainerID,
		Days: []domain.DayConfig{
			{Day: int(time.Wednesday), Intervals: []domain.WorkInterval{{Start: 8, End: 10}}},
		},
	})
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, brt)
	engine := availability.NewEngine(store, store, brt, func() time.Time { return now })

	h, err := NewHandler(cfg, nil, nil, nil, engine, lock.NewMemoryLock())
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, store
}

func do(t *testing.T, h *Handler, method, target, body, token string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func tokenFor(t *testing.T, h *Handler, id string, role domain.Role) string {
	t.Helper()
	ss, _, err := h.issueToken(&domain.User{ID: id, Role: role})
	require.NoError(t, err)
	return ss
}

func TestGetAvailableTimes(t *testing.T) {
	h, store := newTestHandler(t)
	store.AddAppointment(&domain.Appointment{
		TrainerID: trainerID,
		Date:      time.Date(2026, 10, 14, 8, 30, 0, 0, brt),
		Duration:  30,
		Status:    domain.AppointmentAccepted,
	})

	rec, resp := do(t, h, http.MethodGet, "/appointments/horarios/date/"+trainerID+"/2026-10-14?duration=30", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, []any{"08:00", "09:00", "09:30"}, resp.Data)
}

func TestGetAvailableTimesEmptyIsNotAnError(t *testing.T) {
	h, _ := newTestHandler(t)

	// a Wednesday already in the past
	rec, resp := do(t, h, http.MethodGet, "/appointments/horarios/date/"+trainerID+"/2026-10-07?duration=30", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, []any{}, resp.Data)
}

func TestGetAvailableTimesErrors(t *testing.T) {
	h, store := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing duration", "/appointments/horarios/date/" + trainerID + "/2026-10-14", http.StatusBadRequest},
		{"non numeric duration", "/appointments/horarios/date/" + trainerID + "/2026-10-14?duration=abc", http.StatusBadRequest},
		{"fractional duration", "/appointments/horarios/date/" + trainerID + "/2026-10-14?duration=30.5", http.StatusBadRequest},
		{"zero duration", "/appointments/horarios/date/" + trainerID + "/2026-10-14?duration=0", http.StatusBadRequest},
		{"duration above cap", "/appointments/horarios/date/" + trainerID + "/2026-10-14?duration=600", http.StatusBadRequest},
		{"malformed date", "/appointments/horarios/date/" + trainerID + "/14-10-2026?duration=30", http.StatusBadRequest},
		{"unknown trainer", "/appointments/horarios/date/unknown/2026-10-14?duration=30", http.StatusNotFound},
		{"day without intervals", "/appointments/horarios/date/" + trainerID + "/2026-10-15?duration=30", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodGet, tt.target, "", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}

	schedules, appointments := store.Calls()
	assert.Equal(t, 2, schedules, "only the not-found cases reach the store")
	assert.Zero(t, appointments)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, resp := do(t, h, http.MethodPost, "/appointments", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = do(t, h, http.MethodGet, "/my-info", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiredRole(t *testing.T) {
	h, _ := newTestHandler(t)
	student := tokenFor(t, h, "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d", domain.RoleStudent)

	rec, _ := do(t, h, http.MethodGet, "/appointments", "", student)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/appointments/horarios", `{"days":[]}`, student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpsertTrainerScheduleValidation(t *testing.T) {
	h, _ := newTestHandler(t)
	trainer := tokenFor(t, h, trainerID, domain.RoleTrainer)

	tests := []struct {
		name string
		body string
	}{
		{"no days", `{"days":[]}`},
		{"unknown field", `{"days":[{"day":1,"intervals":[]}],"horarios":[]}`},
		{"weekday out of range", `{"days":[{"day":7,"intervals":[{"start":8,"end":10}]}]}`},
		{"start after end", `{"days":[{"day":1,"intervals":[{"start":10,"end":8}]}]}`},
		{"saved location without type", `{"days":[{"day":1,"intervals":[]}],"savedLocations":[{"name":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodPost, "/appointments/horarios", tt.body, trainer)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestGetAppointmentsByMonthValidation(t *testing.T) {
	h, _ := newTestHandler(t)
	me := "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d"
	token := tokenFor(t, h, me, domain.RoleStudent)

	rec, _ := do(t, h, http.MethodGet, "/appointments/by-month/2026/13/"+me, "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/appointments/by-month/year/10/"+me, "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/appointments/by-month/2026/10/"+trainerID, "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := tokenFor(t, h, "0d4f3a3e-2b1c-4f7e-9a4b-6c2d8e9f0a1b", domain.RoleAdmin)
	rec, _ = do(t, h, http.MethodGet, "/appointments/by-month/2026/10/not-a-user", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAppointmentValidation(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, h, "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d", domain.RoleStudent)

	tests := []struct {
		name string
		body string
	}{
		{"missing trainer", `{"location":"gym","date":"2026-10-14T08:00:00-03:00","duration":60,"subscriptionId":"s1"}`},
		{"duration above cap", `{"trainerId":"` + trainerID + `","location":"gym","date":"2026-10-14T08:00:00-03:00","duration":481,"subscriptionId":"s1"}`},
		{"no payment reference", `{"trainerId":"` + trainerID + `","location":"gym","date":"2026-10-14T08:00:00-03:00","duration":60}`},
		{"both payment references", `{"trainerId":"` + trainerID + `","location":"gym","date":"2026-10-14T08:00:00-03:00","duration":60,"subscriptionId":"s1","singleWorkoutId":"w1"}`},
		{"single workout id is not a uuid", `{"trainerId":"` + trainerID + `","location":"gym","date":"2026-10-14T08:00:00-03:00","duration":60,"singleWorkoutId":"w1"}`},
		{"malformed json", `{"trainerId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodPost, "/appointments", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestValidationMessagesUseJSONNames(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, resp := do(t, h, http.MethodPost, "/auth/login", `{"password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Message, "username")
}

func TestPartnerGymRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	admin := tokenFor(t, h, "0d4f3a3e-2b1c-4f7e-9a4b-6c2d8e9f0a1b", domain.RoleAdmin)
	student := tokenFor(t, h, "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d", domain.RoleStudent)

	gym := `{"name":"Academia Central","street":"Av. Paulista","streetNumber":"1000","neighborhood":"Bela Vista","city":"São Paulo","state":"SP"`

	tests := []struct {
		name   string
		method string
		target string
		body   string
		token  string
		status int
	}{
		{"create needs a token", http.MethodPost, "/partner-gyms", gym + `,"zipCode":"01310-100"}`, "", http.StatusUnauthorized},
		{"create is for admins", http.MethodPost, "/partner-gyms", gym + `,"zipCode":"01310-100"}`, student, http.StatusForbidden},
		{"create without address", http.MethodPost, "/partner-gyms", `{"name":"Academia Central"}`, admin, http.StatusBadRequest},
		{"create with short zip code", http.MethodPost, "/partner-gyms", gym + `,"zipCode":"0131"}`, admin, http.StatusBadRequest},
		{"create with bad email", http.MethodPost, "/partner-gyms", gym + `,"zipCode":"01310-100","contactEmail":"nope"}`, admin, http.StatusBadRequest},
		{"nearby needs city and state", http.MethodGet, "/partner-gyms/search/nearby?city=Campinas", "", "", http.StatusBadRequest},
		{"services are required", http.MethodGet, "/partner-gyms/search/services?services=,", "", "", http.StatusBadRequest},
		{"page must be positive", http.MethodGet, "/partner-gyms?page=0", "", "", http.StatusBadRequest},
		{"limit is capped", http.MethodGet, "/partner-gyms?limit=101", "", "", http.StatusBadRequest},
		{"id must be a uuid", http.MethodGet, "/partner-gyms/42", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, tt.method, tt.target, tt.body, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestFeedbackRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	student := tokenFor(t, h, "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d", domain.RoleStudent)

	rec, resp := do(t, h, http.MethodPost, "/feedback", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Message, "email")

	rec, _ = do(t, h, http.MethodPost, "/feedback", `{"rating":5}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/feedback", "", student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSingleWorkoutRoutes(t *testing.T) {
	h, _ := newTestHandler(t)
	trainer := tokenFor(t, h, trainerID, domain.RoleTrainer)
	admin := tokenFor(t, h, "0d4f3a3e-2b1c-4f7e-9a4b-6c2d8e9f0a1b", domain.RoleAdmin)
	student := tokenFor(t, h, "c3d9c2a4-9e0b-4d4e-8d0c-4a7b1f1b2c3d", domain.RoleStudent)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		token  string
		status int
	}{
		{"students cannot sell workouts", http.MethodPost, "/single-workouts", `{"name":"HIIT","description":"45 min","price":50}`, student, http.StatusForbidden},
		{"price must be above ten reais", http.MethodPost, "/single-workouts", `{"name":"HIIT","description":"45 min","price":10}`, trainer, http.StatusBadRequest},
		{"price is required", http.MethodPost, "/single-workouts", `{"name":"HIIT","description":"45 min"}`, trainer, http.StatusBadRequest},
		{"duration above cap", http.MethodPost, "/single-workouts", `{"name":"HIIT","description":"45 min","price":50,"duration":481}`, trainer, http.StatusBadRequest},
		{"admins name the trainer", http.MethodPost, "/single-workouts", `{"name":"HIIT","description":"45 min","price":50}`, admin, http.StatusBadRequest},
		{"isActive must be a bool", http.MethodGet, "/single-workouts/trainer/ana?isActive=maybe", "", "", http.StatusBadRequest},
		{"id must be a uuid", http.MethodGet, "/single-workouts/7", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, tt.method, tt.target, tt.body, tt.token)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Success)
		})
	}
}
