package session

import (
	"context"
	"strconv"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/weathertip"
)

// Refresher re-evaluates a single activity against new weather.
type Refresher interface {
	Refresh(ctx context.Context, in activity.Context) (activity.Activity, bool)
}

// refreshRequest is an armed re-evaluation waiting to be issued.
type refreshRequest struct {
	key   string
	input activity.Context
}

// armRefresh decides whether the selected outdoor suggestion needs a tip
// refresh. It fires at most once per (selection, weather snapshot) pair.
// Indoor selections are skipped on purpose since they never carry tips.
// While a refresh is in flight it does not arm; the caller re-arms once the
// in-flight result has been applied.
func (s *State) armRefresh() (refreshRequest, bool) {
	if s.Weather == nil || s.FetchingEnvironment || s.Refreshing {
		return refreshRequest{}, false
	}
	selected := s.SelectedSuggestion
	if selected == nil || selected.IsCustom || selected.WeatherTipLong != "" || !weathertip.IsOutdoor(*selected) {
		return refreshRequest{}, false
	}
	key := selected.ID + "@" + strconv.Itoa(s.WeatherVersion)
	if key == s.lastRefreshKey {
		return refreshRequest{}, false
	}
	s.lastRefreshKey = key
	s.Refreshing = true
	payload := s.Weather.Payload()
	return refreshRequest{
		key: key,
		input: activity.Context{
			Weather: &payload,
			ActivityToUpdate: &activity.ActivityRef{
				Name:            selected.Name,
				DurationMinutes: selected.DurationMinutes,
			},
		},
	}, true
}

// applyRefresh commits a refresh result if the selection it was issued for
// is still current. The suggestion list is left untouched.
func (s *State) applyRefresh(req refreshRequest, refreshed activity.Activity, ok bool) bool {
	s.Refreshing = false
	if !ok || s.SelectedSuggestion == nil {
		return false
	}
	if s.SelectedSuggestion.ID+"@"+strconv.Itoa(s.WeatherVersion) != req.key {
		return false
	}
	updated := *s.SelectedSuggestion
	updated.WeatherTipShort = refreshed.WeatherTipShort
	updated.WeatherTipLong = refreshed.WeatherTipLong
	s.SelectedSuggestion = &updated
	return true
}
