// Package ratelimit provides the process-global token bucket shared by all
// dispatch workers. It is a thin wrapper over golang.org/x/time/rate: the
// bucket's capacity and refill rate are both pinned to the configured
// ops/second, matching the 1:1 tie the stress engine's source always used.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates one token per submission. A Limiter built with rate <= 0 is
// disabled: Acquire and TryAcquire always succeed immediately.
type Limiter struct {
	inner   *rate.Limiter
	enabled bool
}

// New builds a Limiter capped at ratePerSecond tokens/second with burst
// equal to ratePerSecond. ratePerSecond <= 0 disables rate limiting.
func New(ratePerSecond int) *Limiter {
	if ratePerSecond <= 0 {
		return &Limiter{enabled: false}
	}
	return &Limiter{
		inner:   rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		enabled: true,
	}
}

// Acquire blocks until one token is available or ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	if !l.enabled {
		return nil
	}
	return l.inner.Wait(ctx)
}

// TryAcquire returns false if a token does not become available within
// timeout.
func (l *Limiter) TryAcquire(timeout time.Duration) bool {
	if !l.enabled {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.inner.Wait(ctx) == nil
}

// Enabled reports whether this limiter actually caps throughput.
func (l *Limiter) Enabled() bool {
	return l.enabled
}
