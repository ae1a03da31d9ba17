package cachestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New()
	s.Set("states", "all", []string{"Karnataka", "Delhi"}, time.Hour)

	value, ok := Get[[]string](s, "states", "all")
	require.True(t, ok)
	require.Equal(t, []string{"Karnataka", "Delhi"}, value)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return now })

	s.Set("search", "query", "result", time.Minute)

	_, ok := s.Get("search", "query")
	require.True(t, ok)

	// expiry boundary is inclusive: at expiresAt the entry is gone
	now = now.Add(time.Minute)
	_, ok = s.Get("search", "query")
	require.False(t, ok)

	// lazy eviction removed it entirely
	now = now.Add(-time.Minute)
	_, ok = s.Get("search", "query")
	require.False(t, ok)
}

func TestNamespacesAreIndependent(t *testing.T) {
	s := New()
	s.Set("states", "29", "Karnataka", time.Hour)

	_, ok := s.Get("commissions", "29")
	require.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	s := New()
	s.Set("states", "all", "old", time.Hour)
	s.Set("states", "all", "new", time.Hour)

	value, ok := Get[string](s, "states", "all")
	require.True(t, ok)
	require.Equal(t, "new", value)
}

func TestWrongTypeIsMiss(t *testing.T) {
	s := New()
	s.Set("states", "all", 42, time.Hour)

	_, ok := Get[string](s, "states", "all")
	require.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := New()
	s.Set("states", "all", "value", time.Hour)
	s.Delete("states", "all")

	_, ok := s.Get("states", "all")
	require.False(t, ok)
}
