// Package kv holds the fixed-window counters behind login throttling.
package kv

import (
	"context"
	"fmt"
	"time"

	"EventRegistration/internal/log"
)

// Limiter counts hits per key over a fixed window.
type Limiter interface {
	// Allow records one hit for key and reports whether it is within limit.
	// n is the hit count in the current window.
	Allow(ctx context.Context, key string) (ok bool, n int64, err error)
	Close() error
}

// New returns a Redis limiter when redisURL is set, otherwise an in-process one.
// A Redis that does not answer a ping is an error, so a bad REDIS_URL fails at startup.
func New(ctx context.Context, redisURL string, limit int64, window time.Duration) (Limiter, error) {
	if redisURL == "" {
		log.Info(log.CatAuth, "login limiter using memory", "limit", limit, "window", window)
		return NewMemory(limit, window), nil
	}
	l, err := NewRedis(redisURL, limit, window)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := l.Ping(pingCtx); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info(log.CatAuth, "login limiter using redis", "limit", limit, "window", window)
	return l, nil
}
