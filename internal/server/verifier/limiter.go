package verifier

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ResendLimiter allows one send per phone per interval.
type ResendLimiter struct {
	interval time.Duration

	mu       sync.RWMutex
	limiters map[string]*phoneLimiter
}

type phoneLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewResendLimiter creates a limiter. A non-positive interval disables it.
func NewResendLimiter(interval time.Duration) *ResendLimiter {
	return &ResendLimiter{
		interval: interval,
		limiters: make(map[string]*phoneLimiter),
	}
}

// Allow reports whether a code may be sent to phone now, consuming the
// allowance if so.
func (l *ResendLimiter) Allow(phone string) bool {
	return l.AllowAt(phone, time.Now())
}

// AllowAt is Allow at the given time.
func (l *ResendLimiter) AllowAt(phone string, now time.Time) bool {
	if l.interval <= 0 {
		return true
	}
	pl := l.get(phone, now)

	l.mu.Lock()
	pl.lastSeen = now
	l.mu.Unlock()

	return pl.limiter.AllowN(now, 1)
}

// get returns the limiter for phone, creating it with double-checked
// locking.
func (l *ResendLimiter) get(phone string, now time.Time) *phoneLimiter {
	l.mu.RLock()
	pl, ok := l.limiters[phone]
	l.mu.RUnlock()
	if ok {
		return pl
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if pl, ok = l.limiters[phone]; ok {
		return pl
	}
	pl = &phoneLimiter{
		limiter:  rate.NewLimiter(rate.Every(l.interval), 1),
		lastSeen: now,
	}
	l.limiters[phone] = pl
	return pl
}

// Cleanup forgets phones idle for longer than the interval; their bucket
// is full again by then.
func (l *ResendLimiter) Cleanup(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for phone, pl := range l.limiters {
		if now.Sub(pl.lastSeen) > l.interval {
			delete(l.limiters, phone)
			n++
		}
	}
	return n
}
