// Package contact handles the "Send a Message" form: validation and delivery.
package contact

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"
)

// Subjects offered by the form, keyed by form value.
var Subjects = []Subject{
	{Value: "project", Label: "Project Collaboration"},
	{Value: "freelance", Label: "Freelance Opportunity"},
	{Value: "job", Label: "Job Opportunity"},
	{Value: "general", Label: "General Inquiry"},
	{Value: "other", Label: "Other"},
}

// Visitor-facing notices. Failures never say why.
const (
	SuccessNotice = "Message sent successfully! I'll get back to you within 24 hours. 🚀"
	FailureNotice = "Failed to send message. Please try again or contact me directly."
)

type Subject struct {
	Value string
	Label string
}

// Submission is one filled-in contact form.
type Submission struct {
	Name        string    `json:"name" form:"name"`
	Email       string    `json:"email" form:"email"`
	Subject     string    `json:"subject" form:"subject"`
	Message     string    `json:"message" form:"message"`
	UserAgent   string    `json:"user_agent" form:"-"`
	SubmittedAt time.Time `json:"submitted_at" form:"-"`
}

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{"name", "email", "subject", "message"} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Normalize trims surrounding whitespace from every field.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate returns FieldErrors describing every problem, or nil.
func (s Submission) Validate() error {
	fe := FieldErrors{}
	if s.Name == "" {
		fe["name"] = "Please tell me your name."
	} else if hasControl(s.Name) {
		fe["name"] = "Your name can't contain line breaks or control characters."
	}
	if s.Email == "" {
		fe["email"] = "Please enter your email."
	} else if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
		fe["email"] = "That email address doesn't look right."
	}
	if !knownSubject(s.Subject) {
		fe["subject"] = "Please pick a subject."
	}
	if s.Message == "" {
		fe["message"] = "Please write a message."
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// SubjectLabel returns the human label for the submission's subject.
func (s Submission) SubjectLabel() string {
	for _, sub := range Subjects {
		if sub.Value == s.Subject {
			return sub.Label
		}
	}
	return s.Subject
}

func hasControl(v string) bool {
	return strings.IndexFunc(v, unicode.IsControl) >= 0
}

func knownSubject(v string) bool {
	for _, sub := range Subjects {
		if sub.Value == v {
			return true
		}
	}
	return false
}

// Sender delivers a validated submission.
type Sender interface {
	Send(ctx context.Context, s Submission) error
}

// ErrNotConfigured is returned by senders missing credentials.
var ErrNotConfigured = errors.New("contact: sender not configured")
