package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/timer"
)

const (
	// DefaultReplyDelay is the simulated thinking time before a reply lands.
	DefaultReplyDelay = time.Second
	// DefaultGreeting opens every session.
	DefaultGreeting = "Hey there! 👋 I'm the AI version of myself. How can I help you today?"
)

// Replier produces the reply for a visitor message.
type Replier interface {
	Reply(input string) responder.Reply
}

// Session is one visitor's chat: a transcript plus the replies still in
// flight. Close it when the hosting view goes away; pending replies are then
// dropped.
type Session struct {
	id       string
	replier  Replier
	sched    timer.Scheduler
	delay    time.Duration
	now      func() time.Time
	observer func(Entry)
	greeting string

	mu         sync.Mutex
	transcript Transcript
	pending    map[string]struct{}
	closed     bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDelay sets the delay between a visitor message and its reply.
func WithDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

// WithGreeting replaces the opening responder entry. An empty greeting
// starts the session with an empty transcript.
func WithGreeting(text string) SessionOption {
	return func(s *Session) { s.greeting = text }
}

// WithObserver registers a callback for every entry appended after
// construction. It runs with the session locked and must not call back into
// the session.
func WithObserver(fn func(Entry)) SessionOption {
	return func(s *Session) { s.observer = fn }
}

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session that answers with replier and defers replies
// through sched.
func NewSession(replier Replier, sched timer.Scheduler, opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		replier:  replier,
		sched:    sched,
		delay:    DefaultReplyDelay,
		now:      time.Now,
		pending:  make(map[string]struct{}),
		greeting: DefaultGreeting,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transcript = greetingTranscript(s.greeting, s.now())
	return s
}

func greetingTranscript(text string, at time.Time) Transcript {
	if text == "" {
		return Transcript{}
	}
	return NewTranscript(Entry{Author: AuthorResponder, Text: text, At: at})
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Transcript returns a snapshot of the conversation so far.
func (s *Session) Transcript() Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Submit records a visitor message and schedules its reply. It returns false,
// leaving the transcript untouched, for whitespace-only input, after Close and
// when the reply cannot be scheduled.
func (s *Session) Submit(input string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	next, ok := Submit(s.transcript, input, s.now())
	if !ok {
		return false
	}

	// The reply cannot fire before this returns: deliver needs s.mu.
	var id string
	id, err := s.sched.ScheduleAfter(s.delay, func() { s.deliver(&id, input) })
	if err != nil {
		logger.Logger.Errorw("chat: failed to schedule reply",
			logger.FieldSessionID, s.id, logger.FieldError, err)
		return false
	}
	s.pending[id] = struct{}{}

	s.transcript = next
	if entry, ok := next.Last(); ok {
		s.notifyLocked(entry)
	}
	return true
}

func (s *Session) deliver(id *string, input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, ok := s.pending[*id]; !ok {
		return
	}
	delete(s.pending, *id)

	reply := s.replier.Reply(input)
	entry := Entry{Author: AuthorResponder, Text: reply.Text, Category: reply.Category, At: s.now()}
	s.transcript = s.transcript.Append(entry)
	s.notifyLocked(entry)

	logger.Logger.Debugw("chat: reply delivered",
		logger.FieldSessionID, s.id, logger.FieldCategory, reply.Category)
}

// Pending returns the number of replies not yet delivered.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels pending replies. Later submits are rejected and observers are
// not called again. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id := range s.pending {
		_ = s.sched.Cancel(id)
	}
	s.pending = make(map[string]struct{})
}

func (s *Session) notifyLocked(e Entry) {
	if s.observer != nil {
		s.observer(e)
	}
}
