package client

import (
	"sync"
	"time"
)

// Timer is a single-slot cancellable timer: scheduling replaces any pending
// callback, so rapid reschedules coalesce into the last one.
type Timer interface {
	// Schedule arms the timer, cancelling any previously scheduled callback
	Schedule(d time.Duration, fn func())

	// Cancel disarms the timer if it is pending
	Cancel()
}

// SingleSlotTimer implements Timer on top of time.AfterFunc
type SingleSlotTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewSingleSlotTimer creates a new single-slot timer
func NewSingleSlotTimer() *SingleSlotTimer {
	return &SingleSlotTimer{}
}

// Schedule arms the timer, cancelling any pending callback
func (t *SingleSlotTimer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fn)
}

// Cancel disarms the timer if it is pending
func (t *SingleSlotTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
