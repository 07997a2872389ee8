package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// LogSender writes each event as a structured log line. It is the default
// Sender when no SMTP server is configured, and doubles as a delivery trace
// in development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender builds a LogSender. A nil logger falls back to slog.Default.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the event and always succeeds.
func (s *LogSender) Send(ctx context.Context, ev domain.StatusChange) error {
	s.logger.InfoContext(ctx, "status change notification",
		"recipient", ev.RecipientID,
		"public_id", ev.PublicID,
		"order_code", ev.OrderCode,
		"status", ev.NewStatus,
	)
	return nil
}

// SMTPSender delivers a plain-text status email over SMTP.
//
// The identity collaborator hands the core an opaque user token; Resolve maps
// that token to a mailbox. The default resolver passes the token through
// unchanged, which suits deployments where the token already is the user's
// email address.
type SMTPSender struct {
	// Addr is the SMTP server in host:port form.
	Addr string
	// From is the envelope sender address.
	From string
	// Resolve maps a recipient user token to an email address.
	Resolve func(userID string) (string, error)
}

// NewSMTPSender builds an SMTPSender with the pass-through resolver.
func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{
		Addr:    addr,
		From:    from,
		Resolve: func(userID string) (string, error) { return userID, nil },
	}
}

// Send composes and sends the status email. Rendering is intentionally
// minimal: a subject line and a short plain-text body.
func (s *SMTPSender) Send(_ context.Context, ev domain.StatusChange) error {
	to, err := s.Resolve(ev.RecipientID)
	if err != nil {
		return fmt.Errorf("notify.SMTPSender.Send: resolve recipient: %w", err)
	}

	msg := buildMessage(s.From, to, ev)
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("notify.SMTPSender.Send: %w", err)
	}
	return nil
}

// buildMessage assembles the raw RFC 5322 message bytes.
func buildMessage(from, to string, ev domain.StatusChange) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Travel request %s is now %s\r\n", ev.OrderCode, ev.NewStatus)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", ev.RequestorName)
	fmt.Fprintf(&b, "Your travel request %s to %s is now %s.\r\n", ev.OrderCode, ev.Destination, ev.NewStatus)
	fmt.Fprintf(&b, "Departure: %s\r\n", ev.DepartureAt.Format(domain.TimestampFormat))
	fmt.Fprintf(&b, "Return:    %s\r\n", ev.ReturnAt.Format(domain.TimestampFormat))
	return []byte(b.String())
}
