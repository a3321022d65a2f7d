package notify

import (
	"context"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/lagoon/bookings/pkg/config"
)

// MailerSendChannel delivers owner notifications through the MailerSend
// transactional email API. It reports not-configured when any credential is
// missing so the dispatcher can fall through.
type MailerSendChannel struct {
	client *mailersend.Mailersend
	from   mailersend.From
	to     mailersend.Recipient
}

func NewMailerSendChannel(cfg config.NotifyConfig) *MailerSendChannel {
	c := &MailerSendChannel{
		from: mailersend.From{Name: cfg.FromName, Email: cfg.FromEmail},
		to:   mailersend.Recipient{Name: cfg.OwnerName, Email: cfg.OwnerEmail},
	}
	if cfg.MailerSendKey != "" && cfg.FromEmail != "" && cfg.OwnerEmail != "" {
		c.client = mailersend.NewMailersend(cfg.MailerSendKey)
	}
	return c
}

func (c *MailerSendChannel) Name() string { return "mailersend" }

func (c *MailerSendChannel) Send(ctx context.Context, subject, body string) (Outcome, error) {
	if c.client == nil {
		return OutcomeNotConfigured, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := c.client.Email.NewMessage()
	msg.SetFrom(c.from)
	msg.SetRecipients([]mailersend.Recipient{c.to})
	msg.SetSubject(subject)
	msg.SetText(body)

	if _, err := c.client.Email.Send(ctx, msg); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeSent, nil
}
