// Package places proxies nearby-hospital searches to the Google Places API.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrUpstream wraps any failure of the third-party API so handlers can map
// it to a gateway error instead of crashing.
var ErrUpstream = errors.New("places upstream error")

// Search parameters fixed by the product: hospitals with cardiac care within
// a 5 km radius.
const (
	searchRadiusMeters = 5000
	searchType         = "hospital"
	searchKeyword      = "heart"
)

// Provider is the interface handlers use to search for hospitals.
type Provider interface {
	NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]json.RawMessage, error)
}

// Client calls the Places nearby-search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a places client. The timeout bounds each attempt; the
// caller's context bounds the whole call including retries.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// NearbyHospitals returns the upstream result list verbatim. Network errors
// and 5xx responses are retried with backoff; anything else is terminal.
func (c *Client) NearbyHospitals(ctx context.Context, latitude, longitude float64) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("location", fmt.Sprintf("%v,%v", latitude, longitude))
	query.Set("radius", fmt.Sprintf("%d", searchRadiusMeters))
	query.Set("type", searchType)
	query.Set("keyword", searchKeyword)
	query.Set("key", c.apiKey)
	endpoint := c.baseURL + "?" + query.Encode()

	var parsed searchResponse
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("upstream returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if parsed.Results == nil {
		parsed.Results = []json.RawMessage{}
	}
	return parsed.Results, nil
}
