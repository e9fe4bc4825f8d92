package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLock is a single-process Locker.
type MemoryLock struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	clock func() time.Time
}

type memoryEntry struct {
	token   string
	expires time.Time
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[string]memoryEntry), clock: time.Now}
}

func (m *MemoryLock) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if e, ok := m.held[key]; ok && now.Before(e.expires) {
		return "", false, nil
	}

	token := uuid.NewString()
	m.held[key] = memoryEntry{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (m *MemoryLock) Unlock(ctx context.Context, key string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.held[key]
	if !ok || e.token != token {
		return ErrNotHeld
	}
	delete(m.held, key)
	return nil
}
