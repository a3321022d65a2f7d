package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/lagoon/bookings/pkg/config"
)

// SMTPChannel is the plain-SMTP fallback email channel.
type SMTPChannel struct {
	host string
	port int
	user string
	pass string
	from string
	to   string
}

func NewSMTPChannel(cfg config.NotifyConfig) *SMTPChannel {
	return &SMTPChannel{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.FromEmail,
		to:   cfg.OwnerEmail,
	}
}

func (c *SMTPChannel) Name() string { return "smtp" }

func (c *SMTPChannel) Send(_ context.Context, subject, body string) (Outcome, error) {
	if c.host == "" || c.from == "" || c.to == "" {
		return OutcomeNotConfigured, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", c.from)
	fmt.Fprintf(&buf, "To: %s\r\n", c.to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	var auth smtp.Auth
	if c.user != "" {
		auth = smtp.PlainAuth("", c.user, c.pass, c.host)
	}

	if err := smtp.SendMail(addr, auth, c.from, []string{c.to}, buf.Bytes()); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeSent, nil
}
