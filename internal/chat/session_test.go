package chat

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/timer"
)

func categoryReplies(name string) []string {
	for _, c := range append(responder.DefaultCategories(), responder.DefaultFallback()) {
		if c.Name == name {
			return c.Replies
		}
	}
	return nil
}

func newTestSession(opts ...SessionOption) (*Session, *timer.ManualTimer) {
	clock := timer.NewManualTimer(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opts = append([]SessionOption{WithClock(clock.Now)}, opts...)
	return NewSession(responder.New(responder.WithSeed(1)), clock, opts...), clock
}

func TestTranscriptAppendDoesNotAlias(t *testing.T) {
	base := NewTranscript(Entry{Author: AuthorVisitor, Text: "a"})
	left := base.Append(Entry{Author: AuthorVisitor, Text: "b"})
	right := base.Append(Entry{Author: AuthorVisitor, Text: "c"})

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "b", left.Entries()[1].Text)
	assert.Equal(t, "c", right.Entries()[1].Text)

	entries := left.Entries()
	entries[0].Text = "changed"
	assert.Equal(t, "a", left.Entries()[0].Text)
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	var zero Transcript
	for _, input := range []string{"", "   ", "\t\n"} {
		got, ok := Submit(zero, input, time.Now())
		assert.False(t, ok)
		assert.Equal(t, 0, got.Len())
	}
}

func TestSubmitKeepsRawText(t *testing.T) {
	got, ok := Submit(Transcript{}, "  hello  ", time.Now())
	require.True(t, ok)
	last, _ := got.Last()
	assert.Equal(t, "  hello  ", last.Text)
	assert.Equal(t, AuthorVisitor, last.Author)
}

func TestSessionStartsWithGreeting(t *testing.T) {
	s, _ := newTestSession()
	entries := s.Transcript().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, AuthorResponder, entries[0].Author)
	assert.Equal(t, DefaultGreeting, entries[0].Text)

	empty, _ := newTestSession(WithGreeting(""))
	assert.Equal(t, 0, empty.Transcript().Len())
}

func TestSessionBlankSubmissionIsNoop(t *testing.T) {
	s, clock := newTestSession(WithGreeting(""))
	assert.False(t, s.Submit("   "))
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, s.Transcript().Len())
	assert.Equal(t, 0, clock.Pending())
}

func TestSessionReplyArrivesAfterDelay(t *testing.T) {
	var observed []Entry
	s, clock := newTestSession(WithGreeting(""), WithObserver(func(e Entry) { observed = append(observed, e) }))

	require.True(t, s.Submit("Can we collaborate on a project?"))
	require.Equal(t, 1, s.Transcript().Len())
	assert.Equal(t, 1, s.Pending())

	clock.Advance(DefaultReplyDelay - time.Millisecond)
	assert.Equal(t, 1, s.Transcript().Len())

	clock.Advance(time.Millisecond)
	entries := s.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, AuthorVisitor, entries[0].Author)
	assert.Equal(t, AuthorResponder, entries[1].Author)
	// "project" is checked before "collaborate".
	assert.Equal(t, responder.CategoryProject, entries[1].Category)
	assert.Contains(t, categoryReplies(responder.CategoryProject), entries[1].Text)
	assert.Equal(t, entries[0].At.Add(DefaultReplyDelay), entries[1].At)

	assert.Equal(t, entries, observed)
	assert.Equal(t, 0, s.Pending())
}

func TestSessionCollaborationReply(t *testing.T) {
	s, clock := newTestSession(WithGreeting(""), WithDelay(10*time.Millisecond))
	require.True(t, s.Submit("Can we collaborate?"))
	clock.Advance(10 * time.Millisecond)

	last, ok := s.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, responder.CategoryCollaboration, last.Category)
	assert.Contains(t, categoryReplies(responder.CategoryCollaboration), last.Text)
}

func TestSessionRepliesFollowCompletionOrder(t *testing.T) {
	s, clock := newTestSession(WithGreeting(""))

	require.True(t, s.Submit("hello"))
	clock.Advance(500 * time.Millisecond)
	require.True(t, s.Submit("lorem"))
	clock.Advance(500 * time.Millisecond)

	authors := func() []Author {
		var out []Author
		for _, e := range s.Transcript().Entries() {
			out = append(out, e.Author)
		}
		return out
	}
	assert.Equal(t, []Author{AuthorVisitor, AuthorVisitor, AuthorResponder}, authors())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, []Author{AuthorVisitor, AuthorVisitor, AuthorResponder, AuthorResponder}, authors())

	entries := s.Transcript().Entries()
	assert.Equal(t, responder.CategoryGreeting, entries[2].Category)
	assert.Equal(t, responder.CategoryDefault, entries[3].Category)
}

func TestSessionCloseCancelsPendingReplies(t *testing.T) {
	calls := 0
	s, clock := newTestSession(WithGreeting(""), WithObserver(func(Entry) { calls++ }))

	require.True(t, s.Submit("hi"))
	require.True(t, s.Submit("hey"))
	assert.Equal(t, 2, calls)

	s.Close()
	s.Close()
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 2, s.Transcript().Len())
	assert.Equal(t, 2, calls)
	assert.False(t, s.Submit("hello again"))
}

func TestSessionWithRealTimer(t *testing.T) {
	st := timer.NewSimpleTimer()
	defer st.Stop()
	s := NewSession(responder.New(), st, WithDelay(10*time.Millisecond), WithGreeting(""))
	defer s.Close()

	require.True(t, s.Submit("hello"))
	assert.Eventually(t, func() bool { return s.Transcript().Len() == 2 }, time.Second, 5*time.Millisecond)
}

type brokenScheduler struct{}

func (brokenScheduler) ScheduleAfter(time.Duration, func()) (string, error) {
	return "", errors.New("scheduler stopped")
}
func (brokenScheduler) Cancel(string) error { return nil }
func (brokenScheduler) Stop() {}

func TestSessionSubmitRollsBackWhenReplyCannotBeScheduled(t *testing.T) {
	calls := 0
	s := NewSession(responder.New(), brokenScheduler{}, WithGreeting(""), WithObserver(func(Entry) { calls++ }))

	assert.False(t, s.Submit("hello"))
	assert.Equal(t, 0, s.Transcript().Len())
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, calls)
}

func TestGreetingUsesConfiguredClockRegardlessOfOptionOrder(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	clock := func() time.Time { return at }

	for _, opts := range [][]SessionOption{
		{WithGreeting("Welcome!"), WithClock(clock)},
		{WithClock(clock), WithGreeting("Welcome!")},
	} {
		s := NewSession(responder.New(), timer.NewManualTimer(at), opts...)
		greeting, ok := s.Transcript().Last()
		require.True(t, ok)
		assert.Equal(t, "Welcome!", greeting.Text)
		assert.Equal(t, at, greeting.At)
	}

	s := NewSession(responder.New(), timer.NewManualTimer(at), WithClock(clock))
	greeting, ok := s.Transcript().Last()
	require.True(t, ok)
	assert.Equal(t, DefaultGreeting, greeting.Text)
	assert.Equal(t, at, greeting.At)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, _ := newTestSession()
	b, _ := newTestSession()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
