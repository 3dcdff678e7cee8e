package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	count   int
	started time.Time
}

// Limiter is a fixed-window counter keyed by caller address. It is
// constructed once and injected into the request path; the mutex makes it
// safe under concurrent requests from different callers.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
}

// Allow consumes one request slot for addr. The key's counter resets when its
// window elapses; within a window, requests beyond the quota are denied.
func (l *Limiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[addr]
	if !ok || now.Sub(w.started) >= l.period {
		l.windows[addr] = &window{count: 1, started: now}
		return true
	}

	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Window reports the configured window length, for retry-after hints.
func (l *Limiter) Window() time.Duration {
	return l.period
}
