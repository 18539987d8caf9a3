// Package sunrisesunset fetches sunrise and sunset instants from
// sunrise-sunset.org.
package sunrisesunset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

const defaultBaseURL = "https://api.sunrise-sunset.org"

// Client talks to the sunrise-sunset.org JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a sunrise-sunset client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Results struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"results"`
	Status string `json:"status"`
}

// Fetch returns today's sunrise and sunset for the coordinates.
func (c *Client) Fetch(ctx context.Context, coords activity.Coords) (activity.SunsetInfo, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', 6, 64))
	query.Set("lng", strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	query.Set("formatted", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json?"+query.Encode(), nil)
	if err != nil {
		return activity.SunsetInfo{}, fmt.Errorf("build sunrise-sunset request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return activity.SunsetInfo{}, fmt.Errorf("request sunrise-sunset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return activity.SunsetInfo{}, fmt.Errorf("failed to fetch sunrise/sunset data: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return activity.SunsetInfo{}, fmt.Errorf("decode sunrise-sunset payload: %w", err)
	}
	if payload.Status != "OK" {
		return activity.SunsetInfo{}, fmt.Errorf("sunrise/sunset API returned an error: %s", payload.Status)
	}
	sunrise, err := time.Parse(time.RFC3339, payload.Results.Sunrise)
	if err != nil {
		return activity.SunsetInfo{}, fmt.Errorf("parse sunrise: %w", err)
	}
	sunset, err := time.Parse(time.RFC3339, payload.Results.Sunset)
	if err != nil {
		return activity.SunsetInfo{}, fmt.Errorf("parse sunset: %w", err)
	}
	return activity.SunsetInfo{Sunrise: sunrise.UTC(), Sunset: sunset.UTC()}, nil
}
