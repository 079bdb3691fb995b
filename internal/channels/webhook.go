package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fundwatch/fundwatch/internal/alerting"
)

// defaultWebhookTimeout bounds a single webhook delivery.
const defaultWebhookTimeout = 10 * time.Second

// WebhookClient posts alert payloads as JSON to arbitrary endpoints.
type WebhookClient struct {
	client *http.Client
}

// NewWebhookClient creates a webhook client. timeout <= 0 uses the
// default.
func NewWebhookClient(timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookClient{client: &http.Client{Timeout: timeout}}
}

// Post delivers the payload to the URL. Any non-2xx response is an error.
func (w *WebhookClient) Post(ctx context.Context, url string, payload alerting.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
