package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLock(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLock()

	token, ok, err := l.Lock(ctx, "appointment:t1:2026-10-14", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.Lock(ctx, "appointment:t1:2026-10-14", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second caller must not acquire")

	_, ok, err = l.Lock(ctx, "appointment:t1:2026-10-15", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other keys are independent")

	assert.ErrorIs(t, l.Unlock(ctx, "appointment:t1:2026-10-14", "wrong"), ErrNotHeld)
	require.NoError(t, l.Unlock(ctx, "appointment:t1:2026-10-14", token))

	_, ok, err = l.Lock(ctx, "appointment:t1:2026-10-14", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLockExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLock()
	l.clock = func() time.Time { return now }

	_, ok, _ := l.Lock(ctx, "k", 10*time.Second)
	require.True(t, ok)

	now = now.Add(11 * time.Second)
	_, ok, _ = l.Lock(ctx, "k", 10*time.Second)
	assert.True(t, ok)
}
