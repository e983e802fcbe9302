package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

// captureAfterFunc replaces the timer seam so tests can invoke scheduled
// callbacks by hand, including ones a later Trigger already superseded.
func captureAfterFunc(t *testing.T) *[]func() {
	t.Helper()
	orig := afterFunc
	t.Cleanup(func() { afterFunc = orig })

	var callbacks []func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callbacks = append(callbacks, f)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}
	return &callbacks
}

func TestDebouncerIgnoresStaleTimerCallback(t *testing.T) {
	callbacks := captureAfterFunc(t)

	var called atomic.Int32
	d := New(time.Second, func() {
		called.Add(1)
	})

	d.Trigger()
	d.Trigger()

	if got := len(*callbacks); got != 2 {
		t.Fatalf("scheduled callbacks = %d, want 2", got)
	}
	for _, cb := range *callbacks {
		cb()
	}
	if got := called.Load(); got != 1 {
		t.Fatalf("invocations = %d, want only the latest callback to run", got)
	}
}

func TestDebouncerStopIgnoresPendingTimerCallback(t *testing.T) {
	callbacks := captureAfterFunc(t)

	var called atomic.Int32
	d := New(time.Second, func() {
		called.Add(1)
	})

	d.Trigger()
	d.Stop()

	if len(*callbacks) != 1 {
		t.Fatalf("scheduled callbacks = %d, want 1", len(*callbacks))
	}
	(*callbacks)[0]()

	if got := called.Load(); got != 0 {
		t.Fatalf("invocations after Stop = %d, want 0", got)
	}
}

func TestDebouncerTriggerOnce(t *testing.T) {
	var count atomic.Int32
	done := make(chan struct{})
	d := New(10*time.Millisecond, func() {
		count.Add(1)
		close(done)
	})
	d.Trigger()
	d.Trigger()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not fire")
	}
	if got := count.Load(); got != 1 {
		t.Fatalf("invocations = %d, want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var count atomic.Int32
	d := New(20*time.Millisecond, func() {
		count.Add(1)
	})
	d.Trigger()
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Fatalf("invocations after Stop = %d, want 0", got)
	}
}

func TestEnsureInitializesOnce(t *testing.T) {
	var called atomic.Int32
	var d *Debouncer
	first := Ensure(&d, 5*time.Millisecond, func() { called.Add(1) })
	if first == nil || first != d {
		t.Fatal("Ensure should initialize and return the stored debouncer")
	}
	second := Ensure(&d, 5*time.Millisecond, func() { called.Add(10) })
	if second != first {
		t.Fatal("Ensure should reuse the existing debouncer")
	}
	first.Trigger()
	time.Sleep(20 * time.Millisecond)
	if got := called.Load(); got != 1 {
		t.Fatalf("invocations = %d, want the original handler to run once", got)
	}
}
