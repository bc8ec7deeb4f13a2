package kv

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a Limiter for a single process.
type Memory struct {
	limit  int64
	window time.Duration
	cache  *gocache.Cache
}

// NewMemory keeps counters in a go-cache that drops expired windows every window.
func NewMemory(limit int64, window time.Duration) *Memory {
	return &Memory{
		limit:  limit,
		window: window,
		cache:  gocache.New(window, window),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, int64, error) {
	for {
		if err := m.cache.Add(key, int64(1), m.window); err == nil {
			return 1 <= m.limit, 1, nil
		}
		// Increment keeps the expiry set by Add, so the window stays fixed
		n, err := m.cache.IncrementInt64(key, 1)
		if err == nil {
			return n <= m.limit, n, nil
		}
		// expired between Add and Increment; start a new window
	}
}

func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
