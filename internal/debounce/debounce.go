package debounce

import (
	"sync"
	"time"
)

// afterFunc is swappable so tests can capture scheduled callbacks.
var afterFunc = time.AfterFunc

// Debouncer coalesces bursts of Trigger calls into a single trailing-edge
// invocation of fn. Callbacks from superseded or stopped timers are dropped
// even if they were already in flight.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
	fn    func()
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = afterFunc(d.delay, func() {
		d.mu.Lock()
		stale := seq != d.seq || d.timer == nil
		d.mu.Unlock()
		if stale {
			return
		}
		d.fn()
	})
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Ensure lazily initializes *d and returns it, keeping the existing
// debouncer (and its handler) when one is already set.
func Ensure(d **Debouncer, delay time.Duration, fn func()) *Debouncer {
	if *d == nil {
		*d = New(delay, fn)
	}
	return *d
}
