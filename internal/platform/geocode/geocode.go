package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Resolver interface {
	// Reverse resolves a lat/lon pair to a display address.
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type disabledClient struct{}

func (disabledClient) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return "", fmt.Errorf("geocoding is not configured")
}

func New(baseURL string) Resolver {
	if baseURL == "" {
		return disabledClient{}
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode failed: status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode returned no address")
	}
	return parsed.DisplayName, nil
}

// Fallback is the raw-coordinate rendering used when reverse lookup fails.
func Fallback(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}
