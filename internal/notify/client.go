package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SendResult is provider acknowledgement of an accepted message
type SendResult struct {
	MessageID string
	Status    string
}

// Client is HTTP client of the message send provider
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new notify Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Send delivers one message. Any transport error or non-2xx answer is an
// ordinary failure for the dispatcher to roll back on.
func (c *Client) Send(ctx context.Context, to, subject, body string) (*SendResult, error) {
	// POST /api/messages
	url, err := url.JoinPath(c.baseURL, "api", "messages")
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sendRequest{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("send provider returned status %d", resp.StatusCode)
	}

	sendResp := sendResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, err
	}

	return &SendResult{
		MessageID: sendResp.MessageID,
		Status:    sendResp.Status,
	}, nil
}
