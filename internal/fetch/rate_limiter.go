package fetch

import (
	"context"
	"sync"
	"time"
)

// RateLimiter keeps a fixed gap between the end of one fetch and the start of
// the next. The gap is observed whether the previous fetch succeeded or not.
type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval < 0 {
		interval = 0
	}
	return &RateLimiter{interval: interval, now: time.Now, sleep: sleepContext}
}

func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	r.mu.Lock()
	wait := r.nextAllowedAt.Sub(r.now())
	r.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	return r.sleep(ctx, wait)
}

// Done starts the gap before the next fetch.
func (r *RateLimiter) Done() {
	r.mu.Lock()
	r.nextAllowedAt = r.now().Add(r.interval)
	r.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
