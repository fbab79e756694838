// Package mail delivers outbound emails over SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// sender is the part of *gomail.Dialer used by SMTPMailer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends each email over a fresh SMTP connection.
type SMTPMailer struct {
	from   string
	dialer sender
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}
	return &SMTPMailer{from: cfg.From, dialer: d}
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// Send delivers msg. gomail has no context support, so ctx is only checked
// before dialling; the dialer timeout bounds the rest.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg ports.Email) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	return gm
}

// LogMailer stands in when no SMTP host is configured: emails are logged,
// not sent.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("category", msg.Category).
		Msg("smtp disabled, email not sent")
	return nil
}
