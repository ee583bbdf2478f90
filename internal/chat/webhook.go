package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookSender contract for pushing a message to a chat webhook.
type WebhookSender interface {
	Send(ctx context.Context, webhookURL string, msg Message) error
}

// WebhookClient posts messages to Google Chat incoming webhooks.
type WebhookClient struct {
	client *http.Client
}

// NewWebhookClient new WebhookClient.
func NewWebhookClient() *WebhookClient {
	return &WebhookClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts the message as JSON to the given webhook URL. Any non-2xx
// response is an error.
func (c *WebhookClient) Send(ctx context.Context, webhookURL string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call chat webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat webhook returned non-successful status code: %d", resp.StatusCode)
	}

	return nil
}
