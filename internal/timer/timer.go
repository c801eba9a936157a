// Package timer provides cancellable one-shot timers. Everything deferred in
// the portfolio (typewriter ticks, chat reply delays) goes through a
// Scheduler so the owner can cancel all of it when its view is torn down.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Scheduler schedules one-shot callbacks.
type Scheduler interface {
	// ScheduleAfter runs fn once after delay and returns an id usable with Cancel.
	ScheduleAfter(delay time.Duration, fn func()) (string, error)
	// Cancel stops a pending callback. Unknown ids are not an error.
	Cancel(id string) error
	// Stop cancels every pending callback.
	Stop()
}

// SimpleTimer implements Scheduler with time.AfterFunc.
type SimpleTimer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	nextID int64
}

// NewSimpleTimer creates a new SimpleTimer.
func NewSimpleTimer() *SimpleTimer {
	return &SimpleTimer{timers: make(map[string]*time.Timer)}
}

// ScheduleAfter schedules fn to run after delay on its own goroutine.
func (t *SimpleTimer) ScheduleAfter(delay time.Duration, fn func()) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("timer: nil callback")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := fmt.Sprintf("timer_%d", t.nextID)
	t.timers[id] = time.AfterFunc(delay, func() {
		t.mu.Lock()
		_, live := t.timers[id]
		delete(t.timers, id)
		t.mu.Unlock()
		if live {
			fn()
		}
	})

	logger.Logger.Debugw("timer scheduled", "id", id, "delay", delay)
	return id, nil
}

// Cancel stops the timer with the given id.
func (t *SimpleTimer) Cancel(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tm, ok := t.timers[id]; ok {
		tm.Stop()
		delete(t.timers, id)
	}
	return nil
}

// Stop cancels all pending timers.
func (t *SimpleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, tm := range t.timers {
		tm.Stop()
		delete(t.timers, id)
	}
}

// Pending returns the number of timers that have not fired yet.
func (t *SimpleTimer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
