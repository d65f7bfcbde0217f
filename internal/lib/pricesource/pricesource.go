// Package pricesource talks to the external marketplace gateway that
// resolves product ids to current prices and serves keyword search.
package pricesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dealtracker/internal/models"
)

// ErrNotFound covers both "the marketplace does not know this id" and an
// unreachable gateway; callers treat the two the same way.
var ErrNotFound = errors.New("price not found")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Found bool    `json:"found"`
	Price float64 `json:"price"`
}

// Lookup returns the current marketplace price for an external product id.
func (c *Client) Lookup(ctx context.Context, externalID string) (float64, error) {
	const op = "pricesource.Lookup"

	endpoint := fmt.Sprintf("%s/price?id=%s", c.baseURL, url.QueryEscape(externalID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: %w: unexpected status %d", op, ErrNotFound, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}

	if !body.Found {
		return 0, ErrNotFound
	}

	return body.Price, nil
}

type searchResponse struct {
	Results    []models.SearchResult `json:"results"`
	TotalItems int64                 `json:"total_items"`
}

// Search runs a keyword search against the marketplace gateway. Filters are
// passed through as repeated query parameters.
func (c *Client) Search(
	ctx context.Context,
	keywords string,
	filters []string,
	pageNumber int,
) ([]models.SearchResult, int64, error) {
	const op = "pricesource.Search"

	params := url.Values{}
	params.Set("keywords", keywords)
	params.Set("page", strconv.Itoa(pageNumber))
	for _, f := range filters {
		params.Add("filter", f)
	}

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return body.Results, body.TotalItems, nil
}
