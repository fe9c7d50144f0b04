package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blendwms/internal/model"
)

// WebhookClient delivers stock domain events to an external HTTP endpoint
// (ERP, BI, Slack bridge — whatever the deployment configures). Delivery is
// best-effort and always goes through the circuit breaker so a dead endpoint
// never stalls the worker pool.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook destination is configured.
func (c *WebhookClient) Enabled() bool { return c.url != "" }

// Notify posts a single event as JSON. A non-2xx response counts as failure
// so the circuit breaker sees it.
func (c *WebhookClient) Notify(ctx context.Context, evento model.EventoStock) error {
	body, err := json.Marshal(evento)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Evento-Tipo", evento.Tipo)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
