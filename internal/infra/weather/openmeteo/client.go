// Package openmeteo fetches current conditions and short forecasts from the
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

const defaultBaseURL = "https://api.open-meteo.com/v1"

// Client talks to the Open-Meteo forecast endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds an Open-Meteo client.
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
		now:        time.Now,
	}
}

type forecastResponse struct {
	Current struct {
		Time        int64   `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weathercode"`
		UVIndex     float64 `json:"uv_index"`
	} `json:"current"`
	Hourly struct {
		Time                     []int64 `json:"time"`
		PrecipitationProbability []*int  `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily struct {
		Time                        []int64   `json:"time"`
		WeatherCode                 []int     `json:"weathercode"`
		UVIndexMax                  []float64 `json:"uv_index_max"`
		PrecipitationProbabilityMax []*int    `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Fetch returns the current snapshot. With forecastDays >= 2 the snapshot
// also carries tomorrow's summary when the provider returned it.
func (c *Client) Fetch(ctx context.Context, coords activity.Coords, forecastDays int) (activity.WeatherSnapshot, error) {
	if forecastDays < 1 {
		forecastDays = 1
	}
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 6, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	query.Set("current", "temperature_2m,weathercode,uv_index")
	query.Set("hourly", "precipitation_probability")
	query.Set("temperature_unit", "fahrenheit")
	query.Set("timeformat", "unixtime")
	query.Set("timezone", "auto")
	query.Set("forecast_days", strconv.Itoa(forecastDays))
	if forecastDays >= 2 {
		query.Set("daily", "weathercode,uv_index_max,precipitation_probability_max")
	}

	endpoint := c.baseURL + "/forecast?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return activity.WeatherSnapshot{}, fmt.Errorf("build open-meteo request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return activity.WeatherSnapshot{}, fmt.Errorf("request open-meteo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return activity.WeatherSnapshot{}, fmt.Errorf("failed to fetch weather data: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return activity.WeatherSnapshot{}, fmt.Errorf("decode open-meteo payload: %w", err)
	}
	if payload.Current.Time == 0 {
		return activity.WeatherSnapshot{}, errors.New("open-meteo current data missing")
	}

	now := c.now()
	conditions := Describe(payload.Current.WeatherCode)
	snapshot := activity.WeatherSnapshot{
		Temperature:              int(math.Round(payload.Current.Temperature)),
		Conditions:               conditions,
		ForecastText:             fmt.Sprintf("The weather will be %s for the next hour.", strings.ToLower(conditions)),
		UVIndex:                  int(math.Round(payload.Current.UVIndex)),
		PrecipitationProbability: currentHourValue(now.Unix(), payload.Hourly.Time, payload.Hourly.PrecipitationProbability),
		FetchedAt:                now.UTC(),
	}
	if forecastDays >= 2 {
		snapshot.Tomorrow = tomorrowSummary(payload)
	}
	return snapshot, nil
}

// currentHourValue picks the hourly slot containing now: the last slot that
// started at or before now, bounded by the next slot's start.
func currentHourValue(now int64, times []int64, values []*int) *int {
	for i, start := range times {
		if now < start {
			continue
		}
		if i+1 < len(times) && now >= times[i+1] {
			continue
		}
		if i < len(values) && values[i] != nil {
			v := *values[i]
			return &v
		}
		return nil
	}
	return nil
}

func tomorrowSummary(payload forecastResponse) *activity.DayForecast {
	daily := payload.Daily
	if len(daily.WeatherCode) < 2 || len(daily.UVIndexMax) < 2 {
		return nil
	}
	precip := 0
	if len(daily.PrecipitationProbabilityMax) > 1 && daily.PrecipitationProbabilityMax[1] != nil {
		precip = *daily.PrecipitationProbabilityMax[1]
	}
	return &activity.DayForecast{
		Conditions:               Describe(daily.WeatherCode[1]),
		UVIndex:                  int(math.Round(daily.UVIndexMax[1])),
		PrecipitationProbability: precip,
	}
}

// Describe maps a WMO weather interpretation code to display text.
func Describe(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75, 77:
		return "Snow"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}
