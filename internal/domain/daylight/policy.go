// Package daylight decides how strongly generation should lean toward
// activities that need daylight.
package daylight

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

// Emphasis is a generation instruction, never a filter.
type Emphasis string

const (
	// EmphasisDaylight asks for at least half of the suggestions to need daylight.
	EmphasisDaylight Emphasis = "daylight"
	// EmphasisMix asks for a mix of indoor and outdoor ideas with no ratio.
	EmphasisMix Emphasis = "mix"
)

// Checker answers "is it daylight now" for optional coordinates.
type Checker interface {
	IsDaylight(ctx context.Context, coords *activity.Coords) bool
}

// Decide picks the emphasis. A positive minutesToSunset wins outright; a
// passed sunset falls through to the coordinate lookup or to a mix.
func Decide(ctx context.Context, minutesToSunset *int, coords *activity.Coords, checker Checker) Emphasis {
	if minutesToSunset != nil && *minutesToSunset > 0 {
		return EmphasisDaylight
	}
	if coords != nil && checker != nil && checker.IsDaylight(ctx, coords) {
		return EmphasisDaylight
	}
	return EmphasisMix
}

// SunProvider fetches sunrise and sunset for a location.
type SunProvider interface {
	Fetch(ctx context.Context, coords activity.Coords) (activity.SunsetInfo, error)
}

// Lookup implements Checker on top of a SunProvider.
type Lookup struct {
	provider SunProvider
	fallback activity.Coords
	now      func() time.Time
	logger   *slog.Logger
}

// NewLookup builds a Lookup that uses fallback when no coordinates are given.
func NewLookup(provider SunProvider, fallback activity.Coords, logger *slog.Logger) *Lookup {
	return &Lookup{
		provider: provider,
		fallback: fallback,
		now:      time.Now,
		logger:   logger.With("component", "daylight.lookup"),
	}
}

// IsDaylight reports whether now lies between sunrise and sunset. Provider
// failures read as false.
func (l *Lookup) IsDaylight(ctx context.Context, coords *activity.Coords) bool {
	target := l.fallback
	if coords != nil {
		target = *coords
	}
	info, err := l.provider.Fetch(ctx, target)
	if err != nil {
		l.logger.Warn("daylight lookup failed", "latitude", target.Latitude, "longitude", target.Longitude, "error", err)
		return false
	}
	return info.IsDaylight(l.now())
}
