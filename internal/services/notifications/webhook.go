package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegbarkov/amora/internal/domain/model"
)

// WebhookSink POSTs each notification as JSON to a configured endpoint.
type WebhookSink struct {
	client *http.Client
	url    string
}

func NewWebhookSink(client *http.Client, url string) *WebhookSink {
	return &WebhookSink{
		client: client,
		url:    strings.TrimSpace(url),
	}
}

func (s *WebhookSink) Deliver(ctx context.Context, n model.Notification) error {
	if s.client == nil || s.url == "" {
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}
