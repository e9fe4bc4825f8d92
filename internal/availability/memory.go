package availability

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/fitmatch-dev/marketplace/backend/internal/domain"
)

// MemoryStore keeps schedules and appointments in memory. It satisfies both
// ScheduleStore and AppointmentStore and is safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	schedules    map[string]*domain.WeeklySchedule
	appointments []*domain.Appointment

	scheduleCalls    int
	appointmentCalls int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schedules: make(map[string]*domain.WeeklySchedule),
	}
}

func (m *MemoryStore) PutSchedule(s *domain.WeeklySchedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.TrainerID] = s
}

func (m *MemoryStore) AddAppointment(a *domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = append(m.appointments, a)
}

// Calls returns how many schedule and appointment lookups were served.
func (m *MemoryStore) Calls() (schedules int, appointments int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scheduleCalls, m.appointmentCalls
}

func (m *MemoryStore) GetWeeklySchedule(ctx context.Context, trainerID string) (*domain.WeeklySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleCalls++

	s, ok := m.schedules[trainerID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *MemoryStore) ListBlockingAppointments(ctx context.Context, trainerID string, from, to time.Time) ([]*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointmentCalls++

	out := make([]*domain.Appointment, 0)
	for _, a := range m.appointments {
		if a.TrainerID != trainerID || !a.Status.Blocks() {
			continue
		}
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
