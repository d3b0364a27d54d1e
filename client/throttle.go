package client

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// requestThrottle spaces out requests so that consecutive requests start at
// least a configured interval apart. Concurrent waiters are each assigned the
// next free slot in FIFO-by-arrival order under the lock.
type requestThrottle struct {
	clk      clock.Clock
	mu       sync.Mutex
	interval time.Duration
	nextAt   time.Time
}

func newRequestThrottle(clk clock.Clock) *requestThrottle {
	return &requestThrottle{clk: clk}
}

func (t *requestThrottle) SetInterval(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = interval
}

// Wait blocks until the caller's request slot arrives, or until the context
// is canceled. With no interval configured Wait returns immediately.
func (t *requestThrottle) Wait(ctx context.Context) error {
	t.mu.Lock()
	if t.interval <= 0 {
		t.mu.Unlock()
		return nil
	}
	now := t.clk.Now()
	slot := t.nextAt
	if slot.Before(now) {
		slot = now
	}
	t.nextAt = slot.Add(t.interval)
	t.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}
	timer := t.clk.Timer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
