package discovery

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a fixed minimum interval between acquisitions. It replaces
// ad hoc sleeps between search queries and probe batches so pacing policy
// lives in one place and tests can set a zero interval.
type Gate struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewGate builds a gate with the given interval; zero disables pacing.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Wait blocks until the caller's slot opens or the context is done.
func (g *Gate) Wait(ctx context.Context) error {
	if g.interval <= 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	now := time.Now()
	slot := g.last.Add(g.interval)
	if slot.Before(now) {
		slot = now
	}
	g.last = slot
	g.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
