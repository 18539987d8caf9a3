package session

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/domain/suggestion"
	"github.com/yanqian/pocket-activities/pkg/util"
)

// Environment fetches weather and sunset for a location in parallel.
type Environment struct {
	weather suggestion.WeatherProvider
	sun     daylight.SunProvider
	logger  *slog.Logger
	now     func() time.Time
}

// NewEnvironment wires the environment fetcher.
func NewEnvironment(weather suggestion.WeatherProvider, sun daylight.SunProvider, logger *slog.Logger) *Environment {
	return &Environment{
		weather: weather,
		sun:     sun,
		logger:  logger.With("component", "session.environment"),
		now:     util.NowUTC,
	}
}

// Reading is the joined result of one environment fetch. Each half fails
// independently.
type Reading struct {
	Weather    *activity.WeatherSnapshot
	WeatherErr error
	Sunset     *activity.SunsetInfo
	SunsetErr  error
}

// Fetch runs both provider calls and returns once both have finished.
func (e *Environment) Fetch(ctx context.Context, coords activity.Coords) Reading {
	var reading Reading
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot, err := e.weather.Fetch(gctx, coords, 1)
		if err != nil {
			reading.WeatherErr = err
			return nil
		}
		if snapshot.FetchedAt.IsZero() {
			snapshot.FetchedAt = e.now()
		}
		reading.Weather = &snapshot
		return nil
	})
	g.Go(func() error {
		info, err := e.sun.Fetch(gctx, coords)
		if err != nil {
			reading.SunsetErr = err
			return nil
		}
		reading.Sunset = &info
		return nil
	})
	_ = g.Wait()
	if reading.WeatherErr != nil {
		e.logger.Warn("weather fetch failed", "error", reading.WeatherErr)
	}
	if reading.SunsetErr != nil {
		e.logger.Warn("sunset fetch failed", "error", reading.SunsetErr)
	}
	return reading
}

// applyReading commits a reading. A failed half clears the previous value
// and records a provider notice. It reports whether sunset data changed.
func (s *State) applyReading(r Reading) bool {
	s.FetchingEnvironment = false
	s.ProviderErrors = nil
	if r.WeatherErr != nil {
		s.Weather = nil
		s.ProviderErrors = append(s.ProviderErrors, "Weather: "+r.WeatherErr.Error())
	} else if r.Weather != nil {
		s.Weather = r.Weather
		s.WeatherVersion++
	}
	previous := s.Sunset
	if r.SunsetErr != nil {
		s.Sunset = nil
		s.ProviderErrors = append(s.ProviderErrors, "Sunrise/Sunset: "+r.SunsetErr.Error())
	} else if r.Sunset != nil {
		s.Sunset = r.Sunset
	}
	return !sameSunset(previous, s.Sunset)
}

func sameSunset(a, b *activity.SunsetInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Sunrise.Equal(b.Sunrise) && a.Sunset.Equal(b.Sunset)
}
