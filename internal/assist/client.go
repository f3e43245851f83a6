package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is HTTP client of the text generation provider
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new assist Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type generateRequest struct {
	Tenant string `json:"tenant"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate requests one completion from the provider
func (c *Client) Generate(ctx context.Context, tenantID, prompt string) (string, error) {
	// POST /v1/generate
	url, err := url.JoinPath(c.baseURL, "v1", "generate")
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(generateRequest{Tenant: tenantID, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation provider returned status %d", resp.StatusCode)
	}

	genResp := generateResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", err
	}

	return genResp.Text, nil
}
