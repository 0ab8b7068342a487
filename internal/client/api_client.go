package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
)

// APIClient is the HTTP transport behind a search session
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates an API client against the given base URL
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search issues one query against the paginated search endpoint
func (c *APIClient) Search(ctx context.Context, search, provincia string, skip, limit int) (*entities.ResultPage, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if provincia != "" {
		params.Set("provincia", provincia)
	}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var page entities.ResultPage
	if err := c.getJSON(ctx, "/api/establecimientos?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Provincias retrieves the province list for the filter selector
func (c *APIClient) Provincias(ctx context.Context) ([]string, error) {
	var payload struct {
		Provincias []string `json:"provincias"`
	}
	if err := c.getJSON(ctx, "/api/provincias", &payload); err != nil {
		return nil, err
	}
	return payload.Provincias, nil
}

// getJSON performs a GET and decodes the JSON body. Any non-200 status is a
// uniform search failure; the session does not distinguish causes.
func (c *APIClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
