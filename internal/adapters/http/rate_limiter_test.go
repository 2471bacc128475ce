package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Window(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("a"))
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))

	now = now.Add(61 * time.Second)
	require.True(t, rl.Allow("a"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for range 100 {
		require.True(t, rl.Allow("a"))
	}
}

func TestRateLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		require.True(t, rl.Allow(k))
	}
	require.Equal(t, 3, rl.keys())

	now = now.Add(2 * time.Minute)
	require.True(t, rl.Allow("d"))
	require.Equal(t, 1, rl.keys())
}
