package ratelimit

import (
	"sync"
	"time"
)

// Debounced delays a function until calls stop arriving for the wait period.
type Debounced struct {
	fn    func()
	wait  time.Duration
	clock Clock

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// Debounce wraps fn so that it runs once, wait after the most recent Call.
func Debounce(fn func(), wait time.Duration, opts ...Option) *Debounced {
	o := buildOptions(opts)
	return &Debounced{fn: fn, wait: wait, clock: o.clock}
}

// Call restarts the wait period.
func (d *Debounced) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs fn if no newer Call has superseded generation gen.
func (d *Debounced) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (d *Debounced) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	d.fn()
	return true
}

// Stop cancels a pending call without running it.
func (d *Debounced) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a call is waiting to run.
func (d *Debounced) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
