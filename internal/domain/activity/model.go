package activity

import "time"

// EnergyLevel is an optional effort hint attached to an activity.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Valid reports whether the level is empty or one of the known values.
func (e EnergyLevel) Valid() bool {
	switch e {
	case "", EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// Activity is either a generated suggestion (IsCustom=false, never persisted)
// or a user-authored custom activity (IsCustom=true).
type Activity struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	DurationMinutes int         `json:"durationMinutes"`
	DaylightNeeded  bool        `json:"daylightNeeded"`
	IsCustom        bool        `json:"isCustom"`
	WeatherTipShort string      `json:"weatherTipShort,omitempty"`
	WeatherTipLong  string      `json:"weatherTipLong,omitempty"`
	EnergyLevel     EnergyLevel `json:"energyLevel,omitempty"`
}

// Coords is a latitude/longitude pair reported by the client.
type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherPayload is the slice of weather the generator needs for tips.
type WeatherPayload struct {
	UVIndex                  int `json:"uvIndex"`
	PrecipitationProbability int `json:"precipitationProbability"`
}

// ActivityRef names a single activity to re-evaluate.
type ActivityRef struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Context is the decision input assembled for one generation call.
// A non-nil ActivityToUpdate switches the call to single-activity
// re-evaluation instead of batch generation.
type Context struct {
	AvailableTimeMinutes int             `json:"availableTimeMinutes"`
	DaylightNeeded       bool            `json:"daylightNeeded"`
	MinutesToSunset      *int            `json:"minutesToSunset,omitempty"`
	Weather              *WeatherPayload `json:"weather,omitempty"`
	Coords               *Coords         `json:"coords,omitempty"`
	ActivityToUpdate     *ActivityRef    `json:"activityToUpdate,omitempty"`
}

// IsReevaluation reports whether the context targets a single activity.
func (c Context) IsReevaluation() bool {
	return c.ActivityToUpdate != nil
}

// DayForecast summarises a single forecast day.
type DayForecast struct {
	Conditions               string `json:"conditions"`
	UVIndex                  int    `json:"uvIndex"`
	PrecipitationProbability int    `json:"precipitationProbability"`
}

// WeatherSnapshot is the last weather reading fetched for a session.
type WeatherSnapshot struct {
	Temperature              int          `json:"temperature"`
	Conditions               string       `json:"conditions"`
	ForecastText             string       `json:"forecast"`
	UVIndex                  int          `json:"uvIndex"`
	PrecipitationProbability *int         `json:"precipitationProbability,omitempty"`
	Tomorrow                 *DayForecast `json:"tomorrow,omitempty"`
	FetchedAt                time.Time    `json:"fetchedAt"`
}

// Payload projects the snapshot onto the generator's weather input.
// A missing precipitation probability counts as zero.
func (w WeatherSnapshot) Payload() WeatherPayload {
	precip := 0
	if w.PrecipitationProbability != nil {
		precip = *w.PrecipitationProbability
	}
	return WeatherPayload{UVIndex: w.UVIndex, PrecipitationProbability: precip}
}

// SunsetInfo holds the sunrise and sunset instants for the current day.
type SunsetInfo struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// IsDaylight reports whether at falls strictly between sunrise and sunset.
func (s SunsetInfo) IsDaylight(at time.Time) bool {
	if s.Sunrise.IsZero() || s.Sunset.IsZero() {
		return false
	}
	return at.After(s.Sunrise) && at.Before(s.Sunset)
}
