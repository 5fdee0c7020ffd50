package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates outbound provider calls. Allow reports whether a call may
// be issued right now; a true result consumes the slot immediately, so the
// caller must follow through with the request.
type Limiter interface {
	Allow() bool
}

// MinInterval permits at most one call per interval. The elapsed-time
// check and the timestamp update happen in a single critical section, so
// two concurrent Allow calls can never both win the same slot. The stamp
// is taken before the network call is issued, which means a slow or
// failed request still consumes its slot.
type MinInterval struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time

	now func() time.Time
}

func NewMinInterval(interval time.Duration) *MinInterval {
	return &MinInterval{interval: interval, now: time.Now}
}

func (m *MinInterval) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.last.IsZero() && now.Sub(m.last) < m.interval {
		return false
	}
	m.last = now
	return true
}
