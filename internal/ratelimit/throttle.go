package ratelimit

import (
	"sync"
	"time"
)

// DefaultFrameInterval is roughly one display frame.
const DefaultFrameInterval = 16 * time.Millisecond

// Option configures a limiter.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock sets the time source. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Throttled wraps a function so it runs at most once per interval.
type Throttled struct {
	fn    func()
	limit time.Duration
	clock Clock

	mu       sync.Mutex
	lastRun  time.Time
	hasRun   bool
	calls    int
	executed int
}

// Throttle wraps fn with a leading-edge throttle. The first call runs fn
// immediately; calls made before limit has elapsed since that run are dropped.
func Throttle(fn func(), limit time.Duration, opts ...Option) *Throttled {
	o := buildOptions(opts)
	return &Throttled{fn: fn, limit: limit, clock: o.clock}
}

// Call invokes the wrapped function unless the throttle is cooling down.
// It reports whether the function ran.
func (t *Throttled) Call() bool {
	t.mu.Lock()
	t.calls++
	now := t.clock.Now()
	if t.hasRun && now.Sub(t.lastRun) < t.limit {
		t.mu.Unlock()
		return false
	}
	t.lastRun = now
	t.hasRun = true
	t.executed++
	t.mu.Unlock()

	// fn may re-enter Call through a scroll notification.
	t.fn()
	return true
}

// Reset clears the cooldown so the next call runs immediately.
func (t *Throttled) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hasRun = false
}

// Stats returns how many calls were made and how many ran the function.
func (t *Throttled) Stats() (calls, executed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls, t.executed
}

// Interval returns the throttle window.
func (t *Throttled) Interval() time.Duration {
	return t.limit
}
