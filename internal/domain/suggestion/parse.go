package suggestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func sanitizeJSON(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	return strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
}

// parseSuggestions validates the generator output. Any malformed item fails
// the whole response.
func parseSuggestions(raw string) ([]generated, error) {
	var wire struct {
		Suggestions []struct {
			Activity        string          `json:"activity"`
			Duration        json.RawMessage `json:"duration"`
			WeatherTipShort *string         `json:"weatherTipShort"`
			WeatherTipLong  *string         `json:"weatherTipLong"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &wire); err != nil {
		return nil, err
	}
	if wire.Suggestions == nil {
		return nil, errors.New("suggestions missing")
	}
	out := make([]generated, 0, len(wire.Suggestions))
	for i, item := range wire.Suggestions {
		name := strings.TrimSpace(item.Activity)
		if name == "" {
			return nil, fmt.Errorf("suggestion %d: activity missing", i)
		}
		duration, err := coerceMinutes(item.Duration)
		if err != nil {
			return nil, fmt.Errorf("suggestion %d: %w", i, err)
		}
		out = append(out, generated{
			Name:            name,
			DurationMinutes: duration,
			WeatherTipShort: trimmed(item.WeatherTipShort),
			WeatherTipLong:  trimmed(item.WeatherTipLong),
		})
	}
	return out, nil
}

func parseTomorrowTip(raw string) (string, error) {
	var wire struct {
		WeatherTipLong string `json:"weatherTipLong"`
	}
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &wire); err != nil {
		return "", err
	}
	tip := strings.TrimSpace(wire.WeatherTipLong)
	if tip == "" {
		return "", errors.New("weatherTipLong missing")
	}
	return tip, nil
}

// coerceMinutes accepts a JSON number or numeric string and requires a
// positive whole number of minutes after rounding.
func coerceMinutes(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("duration missing")
	}
	var value float64
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, fmt.Errorf("duration not numeric: %w", err)
		}
		value = parsed
	default:
		if err := json.Unmarshal(raw, &value); err != nil {
			return 0, fmt.Errorf("duration not numeric: %w", err)
		}
	}
	minutes := int(math.Round(value))
	if minutes <= 0 {
		return 0, errors.New("duration must be positive")
	}
	return minutes, nil
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
