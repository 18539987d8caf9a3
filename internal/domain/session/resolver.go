package session

import (
	"time"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/pkg/util"
)

// Resolve assembles a generation context from what the state already knows.
// It performs no I/O. A passed or unknown sunset leaves MinutesToSunset nil.
func Resolve(s *State, now time.Time) activity.Context {
	in := activity.Context{
		AvailableTimeMinutes: s.AvailableMinutes(),
		DaylightNeeded:       s.Preferences.DaylightNeeded,
	}
	if minutes, ok := minutesToSunset(s.Sunset, now); ok {
		in.MinutesToSunset = &minutes
	}
	if s.Weather != nil {
		payload := s.Weather.Payload()
		in.Weather = &payload
	}
	if s.Coords != nil {
		coords := *s.Coords
		in.Coords = &coords
	}
	return in
}

func minutesToSunset(info *activity.SunsetInfo, now time.Time) (int, bool) {
	if info == nil {
		return 0, false
	}
	return util.MinutesUntil(now, info.Sunset)
}
