// Package mailer provides a lightweight outbound email client for FormBridge.
// Uses raw HTTP calls against a Resend-compatible API (no SDK) to minimize
// external dependencies.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Client is the outbound mail interface. Delivery is single-shot: no retry,
// no queueing — callers decide whether a failure matters.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("mailer: not configured")

// RealClient sends mail through the HTTP API.
type RealClient struct {
	APIKey     string
	From       string
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a RealClient. An empty apiKey yields a client whose
// Send always fails with ErrNotConfigured, which callers treat as
// "notifications disabled".
func NewClient(apiKey, from string) *RealClient {
	return &RealClient{
		APIKey:     apiKey,
		From:       from,
		BaseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// Send delivers one message. Non-2xx API responses are returned as errors
// with a short body excerpt for the logs.
func (c *RealClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("mailer: no recipients")
	}

	payload, err := json.Marshal(map[string]any{
		"from":    c.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailer: send failed: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
