package typewriter

import (
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/timer"
)

// Ticker drives a Sequencer from a timer.Scheduler, re-arming a one-shot
// timer after every frame with the frame's Wait.
type Ticker struct {
	seq     *Sequencer
	sched   timer.Scheduler
	onFrame func(Frame)

	mu      sync.Mutex
	running bool
	pending string
	// gen identifies the live timer chain; stale ticks compare unequal.
	gen uint64
}

// NewTicker wires seq to sched. onFrame is called for every frame while
// holding the ticker's lock, so it must not call Stop or Start itself.
func NewTicker(seq *Sequencer, sched timer.Scheduler, onFrame func(Frame)) *Ticker {
	return &Ticker{seq: seq, sched: sched, onFrame: onFrame}
}

// Start restarts the cycle from the first phrase and arms the first tick.
func (t *Ticker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.seq.Reset()
	t.running = true
	return t.armLocked(TypeDelay)
}

// Stop cancels the pending tick. No frame is delivered after Stop returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.cancelLocked()
}

// Running reports whether the ticker is armed.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) tick(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || gen != t.gen {
		return
	}
	t.pending = ""

	frame := t.seq.Advance()
	if t.onFrame != nil {
		t.onFrame(frame)
	}
	if err := t.armLocked(frame.Wait); err != nil {
		logger.Logger.Errorw("typewriter: failed to re-arm ticker", logger.FieldError, err)
		t.running = false
	}
}

func (t *Ticker) armLocked(wait time.Duration) error {
	t.gen++
	gen := t.gen
	id, err := t.sched.ScheduleAfter(wait, func() { t.tick(gen) })
	if err != nil {
		return err
	}
	t.pending = id
	return nil
}

func (t *Ticker) cancelLocked() {
	if t.pending != "" {
		_ = t.sched.Cancel(t.pending)
		t.pending = ""
	}
}
