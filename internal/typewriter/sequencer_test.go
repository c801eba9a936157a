package typewriter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/timer"
)

var phrases = []string{
	"Java & Spring Boot Enthusiast.",
	"Backend Developer & Problem Solver.",
	"Code. Build. Improve.",
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoPhrases)
}

func TestTypingPhaseRevealsPhrase(t *testing.T) {
	seq, err := New(phrases)
	require.NoError(t, err)
	assert.Equal(t, State{}, seq.State())

	n := len([]rune(phrases[0]))
	var last Frame
	for i := 1; i <= n; i++ {
		last = seq.Advance()
		assert.Equal(t, PhaseTyping, last.Phase)
		assert.True(t, last.Emitted)
		assert.Equal(t, phrases[0][:i], last.Text)
		assert.Equal(t, TypeDelay, last.Wait)
	}

	assert.Equal(t, phrases[0], last.Text)
	assert.Equal(t, State{PhraseIndex: 0, Cursor: n, Deleting: false}, seq.State())
}

func TestFullCycleMovesToNextPhrase(t *testing.T) {
	seq, err := New(phrases)
	require.NoError(t, err)
	n := len([]rune(phrases[0]))

	for i := 0; i < n; i++ {
		seq.Advance()
	}

	hold := seq.Advance()
	assert.Equal(t, PhaseHolding, hold.Phase)
	assert.False(t, hold.Emitted)
	assert.Equal(t, phrases[0], hold.Text)
	assert.Equal(t, HoldDelay+DeleteDelay, hold.Wait)
	assert.Equal(t, State{PhraseIndex: 0, Cursor: n, Deleting: true}, seq.State())

	for i := n - 1; i >= 0; i-- {
		f := seq.Advance()
		assert.Equal(t, PhaseDeleting, f.Phase)
		assert.Equal(t, phrases[0][:i], f.Text)
		assert.Equal(t, DeleteDelay, f.Wait)
	}

	next := seq.Advance()
	assert.Equal(t, PhaseNext, next.Phase)
	assert.Equal(t, "", next.Text)
	assert.Equal(t, State{PhraseIndex: 1, Cursor: 0, Deleting: false}, seq.State())
}

func TestWrapsAfterLastPhrase(t *testing.T) {
	seq, err := New([]string{"ab", "c"})
	require.NoError(t, err)

	// "ab": 2 type + hold + 2 delete + next = 6; "c": 1 + 1 + 1 + 1 = 4
	for i := 0; i < 10; i++ {
		seq.Advance()
	}
	assert.Equal(t, State{PhraseIndex: 0, Cursor: 0, Deleting: false}, seq.State())

	f := seq.Advance()
	assert.Equal(t, "a", f.Text)
}

func TestCursorCountsRunes(t *testing.T) {
	seq, err := New([]string{"héllo ✨"})
	require.NoError(t, err)

	var texts []string
	for i := 0; i < 7; i++ {
		texts = append(texts, seq.Advance().Text)
	}
	assert.Equal(t, []string{"h", "hé", "hél", "héll", "héllo", "héllo ", "héllo ✨"}, texts)
}

func TestResetRestarts(t *testing.T) {
	seq, err := New(phrases)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		seq.Advance()
	}
	seq.Reset()
	assert.Equal(t, State{}, seq.State())
	assert.Equal(t, "", seq.Text())
}

func TestEmptyPhraseHoldsImmediately(t *testing.T) {
	seq, err := New([]string{"", "x"})
	require.NoError(t, err)

	assert.Equal(t, PhaseHolding, seq.Advance().Phase)
	assert.Equal(t, PhaseNext, seq.Advance().Phase)
	assert.Equal(t, "x", seq.Advance().Text)
}

func TestTickerFollowsCadence(t *testing.T) {
	seq, err := New([]string{"ab"})
	require.NoError(t, err)
	clock := timer.NewManualTimer(time.Unix(0, 0))

	var frames []Frame
	tk := NewTicker(seq, clock, func(f Frame) { frames = append(frames, f) })
	require.NoError(t, tk.Start())

	clock.Advance(99 * time.Millisecond)
	assert.Empty(t, frames)

	clock.Advance(time.Millisecond)
	require.Len(t, frames, 1)
	assert.Equal(t, "a", frames[0].Text)

	clock.Advance(100 * time.Millisecond)
	require.Len(t, frames, 2)
	assert.Equal(t, "ab", frames[1].Text)

	// hold tick fires 100ms later, then nothing for the hold period
	clock.Advance(100 * time.Millisecond)
	require.Len(t, frames, 3)
	assert.Equal(t, PhaseHolding, frames[2].Phase)

	clock.Advance(HoldDelay)
	assert.Len(t, frames, 3)

	clock.Advance(DeleteDelay)
	require.Len(t, frames, 4)
	assert.Equal(t, "a", frames[3].Text)

	clock.Advance(DeleteDelay)
	require.Len(t, frames, 5)
	assert.Equal(t, "", frames[4].Text)
}

func TestTickerStopCancelsPending(t *testing.T) {
	seq, err := New(phrases)
	require.NoError(t, err)
	clock := timer.NewManualTimer(time.Unix(0, 0))

	count := 0
	tk := NewTicker(seq, clock, func(Frame) { count++ })
	require.NoError(t, tk.Start())
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 3, count)

	tk.Stop()
	assert.False(t, tk.Running())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 3, count)

	require.NoError(t, tk.Start())
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 4, count)
	assert.Equal(t, State{Cursor: 1}, seq.State())
}

// heldScheduler keeps callbacks so a test can fire them in any order.
type heldScheduler struct {
	fns []func()
}

func (h *heldScheduler) ScheduleAfter(_ time.Duration, fn func()) (string, error) {
	h.fns = append(h.fns, fn)
	return fmt.Sprintf("held_%d", len(h.fns)), nil
}

func (h *heldScheduler) Cancel(string) error { return nil }

func (h *heldScheduler) Stop() {}

func TestTickerIgnoresTickFromBeforeRestart(t *testing.T) {
	seq, err := New(phrases)
	require.NoError(t, err)
	sched := &heldScheduler{}

	count := 0
	tk := NewTicker(seq, sched, func(Frame) { count++ })
	require.NoError(t, tk.Start())
	require.NoError(t, tk.Start())
	require.Len(t, sched.fns, 2)

	// The first chain's tick lost the race with the restart.
	sched.fns[0]()
	assert.Equal(t, 0, count)
	assert.Len(t, sched.fns, 2, "a stale tick must not arm a second chain")

	sched.fns[1]()
	assert.Equal(t, 1, count)
	require.Len(t, sched.fns, 3)

	sched.fns[1]()
	assert.Equal(t, 1, count, "a tick fires at most once")
	assert.Equal(t, State{Cursor: 1}, seq.State())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "typing", PhaseTyping.String())
	assert.Equal(t, "holding", PhaseHolding.String())
	assert.Equal(t, "deleting", PhaseDeleting.String())
	assert.Equal(t, "next", PhaseNext.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
