// Package catalog holds the immutable product list fetched from the remote
// catalogue API, the metadata derived from it, and the filter pipeline that
// selects the visible subset.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Client fetches products from the remote catalogue API. The full list is
// fetched once at startup; single products are fetched on demand for detail
// views. No call is ever retried and the list is never paginated.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a catalogue API client.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeout) * time.Second,
		},
		logger: logger.With().Str("component", "catalog-client").Logger(),
	}
}

// productListResponse is the remote API's list envelope.
type productListResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Skip     int             `json:"skip"`
	Limit    int             `json:"limit"`
}

// FetchProducts retrieves the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	url := c.baseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("catalog fetch failed")
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("url", url).Msg("catalog fetch returned non-OK status")
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}

	var envelope productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("failed to decode catalog response")
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	c.logger.Info().Int("count", len(envelope.Products)).Msg("catalog fetched")

	return envelope.Products, nil
}

// FetchProduct retrieves a single product by ID for the detail view. An
// unknown ID returns (nil, nil), mirroring a missing row.
func (c *Client) FetchProduct(ctx context.Context, id int64) (*model.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("product fetch failed")
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("url", url).Msg("product fetch returned non-OK status")
		return nil, fmt.Errorf("product fetch returned status %d", resp.StatusCode)
	}

	var product model.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("failed to decode product response")
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	return &product, nil
}
