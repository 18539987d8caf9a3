package session

import (
	"time"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// View is the read model returned to clients after every operation.
type View struct {
	SessionID   string      `json:"sessionId"`
	Phase       Phase       `json:"phase"`
	Preferences Preferences `json:"preferences"`
	HasSearched bool        `json:"hasSearched"`

	Suggestions      []activity.Activity       `json:"suggestions"`
	CustomActivities []activity.Activity       `json:"customActivities"`
	Selected         *activity.Activity        `json:"selected,omitempty"`
	SelectedIsCustom bool                      `json:"selectedIsCustom"`
	SelectedFits     bool                      `json:"selectedFits"`
	Coords           *activity.Coords          `json:"coords,omitempty"`
	Weather          *activity.WeatherSnapshot `json:"weather,omitempty"`
	Sunset           *activity.SunsetInfo      `json:"sunset,omitempty"`
	SunsetCountdown  string                    `json:"sunsetCountdown,omitempty"`
	FetchingWeather  bool                      `json:"fetchingWeather"`
	Notices          Notices                   `json:"notices"`
}

// Notices are user-visible flags derived from the state.
type Notices struct {
	WeatherTipPending     bool     `json:"weatherTipPending,omitempty"`
	WeatherTipUnavailable bool     `json:"weatherTipUnavailable,omitempty"`
	LocationRequired      bool     `json:"locationRequired,omitempty"`
	DoesNotFit            bool     `json:"doesNotFit,omitempty"`
	LocationError         string   `json:"locationError,omitempty"`
	ProviderErrors        []string `json:"providerErrors,omitempty"`
}

func buildView(id string, s *State, customs []activity.Activity, now time.Time) View {
	view := View{
		SessionID:        id,
		Phase:            s.Phase(),
		Preferences:      s.Preferences,
		HasSearched:      s.HasSearched,
		Suggestions:      s.VisibleSuggestions(),
		CustomActivities: s.VisibleCustomActivities(customs),
		Coords:           s.Coords,
		Weather:          s.Weather,
		Sunset:           s.Sunset,
		FetchingWeather:  s.FetchingEnvironment,
		Notices: Notices{
			LocationError:  s.LocationError,
			ProviderErrors: s.ProviderErrors,
		},
	}
	if s.Sunset != nil {
		view.SunsetCountdown = CountdownText(now, s.Sunset.Sunset)
	}
	if selected, ok := s.Selected(customs); ok {
		view.Selected = &selected
		view.SelectedIsCustom = selected.IsCustom
		view.SelectedFits = s.FitsCriteria(selected)
		view.Notices.DoesNotFit = !view.SelectedFits
		if selected.DaylightNeeded && selected.WeatherTipLong == "" {
			busy := s.FetchingEnvironment || s.Refreshing
			view.Notices.WeatherTipPending = busy
			view.Notices.WeatherTipUnavailable = !busy
			view.Notices.LocationRequired = !busy && s.Coords == nil && s.LocationError == ""
		}
	}
	return view
}
