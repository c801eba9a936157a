package contact

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Zachkp/portfolio/internal/logger"
)

// LogSender pretends to deliver: it waits, logs the submission and succeeds.
// Nothing leaves the process.
type LogSender struct {
	Delay time.Duration
}

// Send waits for Delay or until ctx is done.
func (l LogSender) Send(ctx context.Context, s Submission) error {
	if l.Delay > 0 {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "contact submission cancelled")
		case <-t.C:
		}
	}
	logger.Named("contact").Infow("contact form submitted",
		"name", s.Name,
		"email", s.Email,
		"subject", s.Subject,
		"submitted_at", s.SubmittedAt,
		"user_agent", s.UserAgent,
	)
	return nil
}

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	To       string
}

// SendMailFunc matches smtp.SendMail so tests can capture mail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender mails submissions to the site owner.
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail SendMailFunc
}

// NewSMTPSender returns a sender using smtp.SendMail.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

// WithSendMail swaps the transport; used by tests.
func (m *SMTPSender) WithSendMail(fn SendMailFunc) *SMTPSender {
	m.sendMail = fn
	return m
}

// Configured reports whether credentials and a recipient are set.
func (m *SMTPSender) Configured() bool {
	return m.cfg.User != "" && m.cfg.Password != "" && m.cfg.To != "" && m.cfg.Host != ""
}

// Send composes and sends the message. smtp.SendMail has no context support,
// so ctx is only checked before dialing.
func (m *SMTPSender) Send(ctx context.Context, s Submission) error {
	if !m.Configured() {
		return errors.WithHint(ErrNotConfigured, "set SMTP_USER, SMTP_PASS and TO_EMAIL")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "contact submission cancelled")
	}
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "refusing to mail invalid submission")
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.sendMail(addr, auth, m.cfg.User, []string{m.cfg.To}, m.compose(s)); err != nil {
		return errors.Wrapf(err, "send contact mail via %s", addr)
	}

	logger.Named("contact").Infow("contact mail sent", "email", s.Email, "subject", s.Subject)
	return nil
}

var stripLineBreaks = strings.NewReplacer("\r", "", "\n", "")

func (m *SMTPSender) compose(s Submission) []byte {
	// Visitor text in headers is Q-encoded so it can never open a new header line.
	subject := mime.QEncoding.Encode("utf-8", fmt.Sprintf("Portfolio Contact: %s (%s)", s.Name, s.SubjectLabel()))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form at %s
`, s.Name, s.Email, s.SubjectLabel(), s.Message, s.SubmittedAt.Format(time.RFC3339))

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + stripLineBreaks.Replace(s.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
