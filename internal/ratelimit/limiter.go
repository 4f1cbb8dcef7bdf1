package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out calls to the quote API. The Tencent endpoint has no
// documented quota but starts rejecting callers that hammer it, so every
// attempt (including retries) waits for the courtesy interval first.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter that permits one call per interval. The first call
// passes immediately; a non-positive interval disables limiting entirely,
// which keeps tests fast.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is permitted or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call may happen now without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
