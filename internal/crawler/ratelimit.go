package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces listing requests. Wait blocks until the next request may
// be sent or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewIntervalLimiter returns a Limiter that lets one request through
// immediately and then at most one per interval. An interval <= 0 disables
// pacing.
func NewIntervalLimiter(interval time.Duration) Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type noLimit struct{}

func (noLimit) Wait(ctx context.Context) error {
	return ctx.Err()
}

// NoLimit returns a Limiter that never waits.
func NoLimit() Limiter {
	return noLimit{}
}
