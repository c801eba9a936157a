package timer

import (
	"fmt"
	"sync"
	"time"
)

type manualEntry struct {
	id       string
	seq      int64
	deadline time.Time
	fn       func()
}

// ManualTimer is a Scheduler driven by a virtual clock. Nothing fires until
// Advance moves the clock past a deadline, which makes timing deterministic
// in tests.
type ManualTimer struct {
	mu      sync.Mutex
	now     time.Time
	nextSeq int64
	pending map[string]*manualEntry
}

// NewManualTimer returns a ManualTimer whose clock starts at start.
func NewManualTimer(start time.Time) *ManualTimer {
	return &ManualTimer{now: start, pending: make(map[string]*manualEntry)}
}

// Now returns the virtual time.
func (m *ManualTimer) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// ScheduleAfter registers fn to run once the clock reaches now+delay.
func (m *ManualTimer) ScheduleAfter(delay time.Duration, fn func()) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("timer: nil callback")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	id := fmt.Sprintf("manual_%d", m.nextSeq)
	m.pending[id] = &manualEntry{id: id, seq: m.nextSeq, deadline: m.now.Add(delay), fn: fn}
	return id, nil
}

// Cancel removes a pending callback.
func (m *ManualTimer) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)
	return nil
}

// Stop removes every pending callback.
func (m *ManualTimer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = make(map[string]*manualEntry)
}

// Pending returns the number of callbacks waiting on the clock.
func (m *ManualTimer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, firing due callbacks in deadline
// order. Callbacks scheduled while advancing fire too if they fall due
// before the new time. Callbacks run without the lock held.
func (m *ManualTimer) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.earliestLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		delete(m.pending, next.id)
		m.now = next.deadline
		m.mu.Unlock()

		next.fn()
	}
}

func (m *ManualTimer) earliestLocked(limit time.Time) *manualEntry {
	var best *manualEntry
	for _, e := range m.pending {
		if e.deadline.After(limit) {
			continue
		}
		if best == nil || e.deadline.Before(best.deadline) ||
			(e.deadline.Equal(best.deadline) && e.seq < best.seq) {
			best = e
		}
	}
	return best
}
