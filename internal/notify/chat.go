package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lagoon/bookings/pkg/config"
)

// ChatChannel posts the booking alert to a chat webhook (Slack-style
// incoming webhook or equivalent).
type ChatChannel struct {
	url    string
	token  string
	client *http.Client
}

func NewChatChannel(cfg config.NotifyConfig) *ChatChannel {
	return &ChatChannel{
		url:    cfg.ChatWebhookURL,
		token:  cfg.ChatToken,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ChatChannel) Name() string { return "chat" }

type chatPayload struct {
	Text string `json:"text"`
}

func (c *ChatChannel) Send(ctx context.Context, subject, body string) (Outcome, error) {
	if c.url == "" {
		return OutcomeNotConfigured, nil
	}

	payload, err := json.Marshal(chatPayload{Text: subject + "\n" + body})
	if err != nil {
		return OutcomeFailed, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return OutcomeFailed, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return OutcomeFailed, fmt.Errorf("chat webhook returned %d", resp.StatusCode)
	}
	return OutcomeSent, nil
}
