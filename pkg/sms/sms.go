// Package sms sends text messages through an Africa's Talking compatible
// HTTP gateway.
//
// The workflow layer only sees the Gateway interface; the concrete Client
// speaks the provider's form-encoded wire format. A gateway failure is an
// opaque error — callers decide whether it matters (order notifications
// swallow it).
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/savannah/config"
)

// Gateway is the outbound SMS capability.
type Gateway interface {
	Send(ctx context.Context, message string, recipients []string, senderID string) (*Response, error)
}

// Response is the provider's acknowledgement of a send.
type Response struct {
	Message    string
	Recipients []Recipient
}

// Recipient is the per-number delivery status.
type Recipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId"`
}

// wireResponse mirrors the provider's JSON envelope.
type wireResponse struct {
	SMSMessageData struct {
		Message    string      `json:"Message"`
		Recipients []Recipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	cfg  config.SMSConfig
	http *http.Client
}

// NewClient builds a gateway client. httpClient may be nil, in which case a
// client with a 10 second timeout is used.
func NewClient(cfg config.SMSConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Send posts one message to the gateway's /messaging endpoint.
func (c *Client) Send(ctx context.Context, message string, recipients []string, senderID string) (*Response, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("sms: no recipients")
	}

	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("to", strings.Join(recipients, ","))
	form.Set("message", message)
	if senderID != "" {
		form.Set("from", senderID)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/messaging"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sms: gateway returned HTTP %d", resp.StatusCode)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("sms: decode response: %w", err)
	}

	return &Response{
		Message:    wire.SMSMessageData.Message,
		Recipients: wire.SMSMessageData.Recipients,
	}, nil
}
