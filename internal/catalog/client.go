package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dinehub/orderflow/internal/models"
)

// Item is catalog view of a menu item. Modifiers carry raw tags like
// "Extra cheese|1.00" which the pricing validator parses.
type Item struct {
	ID         string
	Name       string
	PriceCents int64
	Modifiers  []string
}

// Client is HTTP client of catalog service
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new catalog Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type itemResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"price_cents"`
	Modifiers  []string `json:"modifiers,omitempty"`
}

// GetItem returns catalog item for tenant
// 200 — item found.
// 404 — item is unknown to the catalog.
func (c *Client) GetItem(ctx context.Context, tenantID, itemID string) (*Item, error) {
	// GET /api/tenants/{tenant}/items/{id}
	url, err := url.JoinPath(c.baseURL, "api", "tenants", tenantID, "items", itemID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		itemResp := itemResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&itemResp); err != nil {
			return nil, err
		}
		return &Item{
			ID:         itemResp.ID,
			Name:       itemResp.Name,
			PriceCents: itemResp.PriceCents,
			Modifiers:  itemResp.Modifiers,
		}, nil
	case http.StatusNotFound:
		return nil, models.ErrCatalogMismatch
	default:
		return nil, models.ErrInternalError
	}
}
