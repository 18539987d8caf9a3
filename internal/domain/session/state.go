// Package session owns per-user suggestion state: preferences, the
// suggestion list, the single active selection and the environment
// (location, weather, sunset) that feeds generation and tip refreshes.
package session

import "github.com/yanqian/pocket-activities/internal/domain/activity"

// Phase is the coarse lifecycle of a session's suggestion flow.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhasePopulated Phase = "populated"
	PhaseSelected  Phase = "selected"
)

// Preferences is the user's filter input.
type Preferences struct {
	Time           int               `json:"time"`
	Unit           activity.TimeUnit `json:"unit"`
	DaylightNeeded bool              `json:"daylightNeeded"`
}

// DefaultPreferences matches a fresh session: 30 minutes, no daylight filter.
func DefaultPreferences() Preferences {
	return Preferences{Time: 30, Unit: activity.UnitMinutes}
}

// State is the mutable session state. It is never shared across sessions
// and is only touched with the owning session's lock held.
type State struct {
	Preferences Preferences

	Suggestions []activity.Activity
	HasSearched bool
	Searching   bool

	// At most one of SelectedSuggestion and SelectedCustomID is set.
	SelectedSuggestion *activity.Activity
	SelectedCustomID   string

	Coords              *activity.Coords
	Weather             *activity.WeatherSnapshot
	WeatherVersion      int
	Sunset              *activity.SunsetInfo
	FetchingEnvironment bool
	Refreshing          bool
	LocationError       string
	ProviderErrors      []string

	lastRefreshKey string
}

// NewState returns a state with default preferences.
func NewState() State {
	return State{Preferences: DefaultPreferences()}
}

// Phase derives the lifecycle phase from the current fields.
func (s *State) Phase() Phase {
	switch {
	case s.Searching:
		return PhaseSearching
	case s.SelectedSuggestion != nil || s.SelectedCustomID != "":
		return PhaseSelected
	case s.HasSearched:
		return PhasePopulated
	default:
		return PhaseIdle
	}
}
