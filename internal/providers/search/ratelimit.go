package search

import (
	"context"
	"sync"
	"time"
)

// hostLimiter spaces requests to the same host at least interval apart.
// Callers for different hosts never wait on each other.
type hostLimiter struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next map[string]time.Time
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{interval: interval, now: time.Now, next: make(map[string]time.Time)}
}

// Wait blocks until host may be contacted again or ctx is done.
func (l *hostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	now := l.now()
	slot := l.next[host]
	if slot.Before(now) {
		slot = now
	}
	l.next[host] = slot.Add(l.interval)
	l.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
