// Package typewriter cycles through a list of phrases one character at a
// time, typing each phrase out, holding it, deleting it, and moving on.
//
// Sequencer is a pure state machine: it never sleeps or schedules anything.
// Each Frame it returns says how long the host should wait before calling
// Advance again.
package typewriter

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Cadence of the animation.
const (
	TypeDelay   = 100 * time.Millisecond
	DeleteDelay = 50 * time.Millisecond
	HoldDelay   = 2000 * time.Millisecond
)

// ErrNoPhrases is returned by New for an empty phrase list.
var ErrNoPhrases = errors.New("typewriter: at least one phrase is required")

// Phase names the transition that produced a Frame.
type Phase int

const (
	// PhaseTyping revealed one more character.
	PhaseTyping Phase = iota
	// PhaseHolding found the phrase complete and switched to deleting.
	PhaseHolding
	// PhaseDeleting removed one character.
	PhaseDeleting
	// PhaseNext found the phrase empty and moved to the next phrase.
	PhaseNext
)

func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseHolding:
		return "holding"
	case PhaseDeleting:
		return "deleting"
	case PhaseNext:
		return "next"
	default:
		return "unknown"
	}
}

// State is the position of the animation. Cursor counts runes.
type State struct {
	PhraseIndex int  `json:"phrase_index"`
	Cursor      int  `json:"cursor"`
	Deleting    bool `json:"deleting"`
}

// Frame is the result of one Advance.
type Frame struct {
	// Text is the visible prefix of the current phrase after the transition.
	Text string `json:"text"`
	// Emitted is true when Text changed.
	Emitted bool  `json:"emitted"`
	Phase   Phase `json:"phase"`
	// Wait is how long the host should wait before the next Advance.
	Wait  time.Duration `json:"wait"`
	State State         `json:"state"`
}

// Sequencer holds the phrase list and the current State. It is not safe for
// concurrent use; Ticker serialises access for timer-driven hosts.
type Sequencer struct {
	phrases [][]rune
	state   State
}

// New returns a Sequencer positioned at the start of the first phrase.
func New(phrases []string) (*Sequencer, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	runes := make([][]rune, len(phrases))
	for i, p := range phrases {
		runes[i] = []rune(p)
	}
	return &Sequencer{phrases: runes}, nil
}

// State returns the current position.
func (s *Sequencer) State() State {
	return s.state
}

// Reset restarts the cycle at the first phrase.
func (s *Sequencer) Reset() {
	s.state = State{}
}

// Text returns the currently visible prefix.
func (s *Sequencer) Text() string {
	return string(s.phrases[s.state.PhraseIndex][:s.state.Cursor])
}

// Advance applies one transition and returns the resulting frame.
func (s *Sequencer) Advance() Frame {
	phrase := s.phrases[s.state.PhraseIndex]
	var phase Phase
	var wait time.Duration

	if !s.state.Deleting {
		if s.state.Cursor < len(phrase) {
			s.state.Cursor++
			phase, wait = PhaseTyping, TypeDelay
		} else {
			// Holding covers the pause and the first delete tick.
			s.state.Deleting = true
			phase, wait = PhaseHolding, HoldDelay+DeleteDelay
		}
	} else {
		if s.state.Cursor > 0 {
			s.state.Cursor--
			phase, wait = PhaseDeleting, DeleteDelay
		} else {
			s.state.Deleting = false
			s.state.PhraseIndex = (s.state.PhraseIndex + 1) % len(s.phrases)
			phase, wait = PhaseNext, TypeDelay
		}
	}

	return Frame{
		Text:    s.Text(),
		Emitted: phase == PhaseTyping || phase == PhaseDeleting,
		Phase:   phase,
		Wait:    wait,
		State:   s.state,
	}
}
