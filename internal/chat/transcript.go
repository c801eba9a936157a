// Package chat holds the chat widget's transcript and the session that feeds
// it: visitor messages go in immediately, canned replies follow after a delay.
package chat

import (
	"strings"
	"time"
)

// Author identifies who wrote an entry.
type Author string

const (
	AuthorVisitor   Author = "visitor"
	AuthorResponder Author = "responder"
)

// Entry is a single line of the transcript.
type Entry struct {
	Author   Author    `json:"author"`
	Text     string    `json:"text"`
	Category string    `json:"category,omitempty"`
	At       time.Time `json:"at"`
}

// Transcript is an append-only log of entries. The zero value is empty and
// ready to use. Append never modifies the receiver.
type Transcript struct {
	entries []Entry
}

// NewTranscript returns a transcript holding a copy of entries.
func NewTranscript(entries ...Entry) Transcript {
	return Transcript{entries: append([]Entry(nil), entries...)}
}

// Append returns a new transcript with e added at the end.
func (t Transcript) Append(e Entry) Transcript {
	next := make([]Entry, len(t.entries), len(t.entries)+1)
	copy(next, t.entries)
	return Transcript{entries: append(next, e)}
}

// Len returns the number of entries.
func (t Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in order.
func (t Transcript) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Last returns the newest entry.
func (t Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Submit appends the visitor half of a chat submission. Whitespace-only input
// is rejected and t is returned unchanged. The raw input is stored, not the
// trimmed one.
func Submit(t Transcript, input string, now time.Time) (Transcript, bool) {
	if strings.TrimSpace(input) == "" {
		return t, false
	}
	return t.Append(Entry{Author: AuthorVisitor, Text: input, At: now}), true
}
