package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pestaway/voiceagent/logger"
)

// webhookRequest is the body posted to function provider webhooks.
type webhookRequest struct {
	FunctionName string          `json:"function_name"`
	Parameters   json.RawMessage `json:"parameters"`
	Timestamp    string          `json:"timestamp"`
}

// WebhookInvoker posts function invocations to external provider webhooks.
// Success is HTTP 2xx with a JSON body; anything else is an invocation error.
type WebhookInvoker struct {
	client *http.Client
	now    func() time.Time
}

// NewWebhookInvoker creates a webhook invoker with the given round-trip timeout.
func NewWebhookInvoker(timeout time.Duration) *WebhookInvoker {
	return &WebhookInvoker{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Invoke posts {function_name, parameters, timestamp} to url and decodes the
// JSON response body. The context bounds the round-trip in addition to the
// client timeout.
func (w *WebhookInvoker) Invoke(ctx context.Context, url, functionName string, params json.RawMessage) (json.RawMessage, error) {
	if url == "" {
		return nil, fmt.Errorf("no webhook URL configured for %s", functionName)
	}
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	body, err := json.Marshal(webhookRequest{
		FunctionName: functionName,
		Parameters:   params,
		Timestamp:    w.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("webhook returned non-success status",
			"function", functionName, "status", resp.StatusCode)
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("webhook returned a non-JSON body")
	}

	return respBody, nil
}

// Close cleans up idle connections.
func (w *WebhookInvoker) Close() error {
	w.client.CloseIdleConnections()
	return nil
}
