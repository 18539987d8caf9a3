package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

func sampleSuggestions() []activity.Activity {
	return []activity.Activity{
		{ID: "ai-park-walk-1", Name: "Park walk", DurationMinutes: 30, DaylightNeeded: true},
		{ID: "ai-read-2", Name: "Read a book", DurationMinutes: 20},
		{ID: "ai-hike-3", Name: "Day hike", DurationMinutes: 240, DaylightNeeded: true},
	}
}

func sampleCustoms() []activity.Activity {
	return []activity.Activity{
		{ID: "custom-a", Name: "Gardening", DurationMinutes: 60, DaylightNeeded: true, IsCustom: true},
		{ID: "custom-b", Name: "Piano practice", DurationMinutes: 25, IsCustom: true},
	}
}

func TestSelectionExclusivity(t *testing.T) {
	st := NewState()
	st.Suggestions = sampleSuggestions()
	customs := sampleCustoms()

	require.True(t, st.SelectSuggestion("ai-read-2"))
	require.NotNil(t, st.SelectedSuggestion)
	require.Empty(t, st.SelectedCustomID)

	require.True(t, st.SelectCustom("custom-b", customs))
	require.Nil(t, st.SelectedSuggestion)
	require.Equal(t, "custom-b", st.SelectedCustomID)

	require.True(t, st.SelectSuggestion("ai-park-walk-1"))
	require.Empty(t, st.SelectedCustomID)
	selected, ok := st.Selected(customs)
	require.True(t, ok)
	require.Equal(t, "Park walk", selected.Name)

	require.False(t, st.SelectSuggestion("missing"))
	require.False(t, st.SelectCustom("missing", customs))
	require.Equal(t, "ai-park-walk-1", st.SelectedSuggestion.ID)
}

func TestVisibilityAndFitsCriteria(t *testing.T) {
	st := NewState()
	st.Suggestions = sampleSuggestions()
	customs := sampleCustoms()

	st.Preferences = Preferences{Time: 30, Unit: activity.UnitMinutes}
	require.Len(t, st.VisibleSuggestions(), 2)
	require.Len(t, st.VisibleCustomActivities(customs), 1)

	st.Preferences = Preferences{Time: 4, Unit: activity.UnitHours}
	require.Len(t, st.VisibleSuggestions(), 3)
	require.Len(t, st.VisibleCustomActivities(customs), 2)

	st.Preferences.DaylightNeeded = true
	require.Len(t, st.VisibleSuggestions(), 2)
	require.Len(t, st.VisibleCustomActivities(customs), 1)

	require.True(t, st.SelectSuggestion("ai-read-2"))
	selected, _ := st.Selected(customs)
	require.False(t, st.FitsCriteria(selected))
	require.NotNil(t, st.SelectedSuggestion)
}

func TestPhasesAndReset(t *testing.T) {
	st := NewState()
	require.Equal(t, PhaseIdle, st.Phase())
	require.False(t, st.HasSearched)

	st.BeginSearch()
	require.Equal(t, PhaseSearching, st.Phase())

	st.FinishSearch(nil)
	require.Equal(t, PhasePopulated, st.Phase())
	require.True(t, st.HasSearched)
	require.Empty(t, st.Suggestions)

	st.FinishSearch(sampleSuggestions())
	require.True(t, st.SelectSuggestion("ai-read-2"))
	require.Equal(t, PhaseSelected, st.Phase())

	st.Reset()
	require.Equal(t, PhaseIdle, st.Phase())
	require.False(t, st.HasSearched)
	require.Nil(t, st.Suggestions)
	require.Nil(t, st.SelectedSuggestion)
}

func TestClearCustom(t *testing.T) {
	st := NewState()
	require.True(t, st.SelectCustom("custom-a", sampleCustoms()))
	require.False(t, st.ClearCustom("custom-b"))
	require.True(t, st.ClearCustom("custom-a"))
	require.Empty(t, st.SelectedCustomID)
	_, ok := st.Selected(sampleCustoms())
	require.False(t, ok)
}

func TestResolve(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	precip := 40
	st := NewState()
	st.Preferences = Preferences{Time: 2, Unit: activity.UnitHours, DaylightNeeded: true}
	st.Coords = &activity.Coords{Latitude: 1.3, Longitude: 103.8}
	st.Weather = &activity.WeatherSnapshot{UVIndex: 4, PrecipitationProbability: &precip}
	st.Sunset = &activity.SunsetInfo{Sunrise: now.Add(-12 * time.Hour), Sunset: now.Add(90*time.Minute + 30*time.Second)}

	in := Resolve(&st, now)
	require.Equal(t, 120, in.AvailableTimeMinutes)
	require.True(t, in.DaylightNeeded)
	require.NotNil(t, in.MinutesToSunset)
	require.Equal(t, 90, *in.MinutesToSunset)
	require.Equal(t, &activity.WeatherPayload{UVIndex: 4, PrecipitationProbability: 40}, in.Weather)
	require.Equal(t, st.Coords, in.Coords)
	require.NotSame(t, st.Coords, in.Coords)
	require.False(t, in.IsReevaluation())

	st.Sunset.Sunset = now.Add(-time.Minute)
	in = Resolve(&st, now)
	require.Nil(t, in.MinutesToSunset)

	st.Sunset = nil
	st.Weather = &activity.WeatherSnapshot{UVIndex: 1}
	in = Resolve(&st, now)
	require.Nil(t, in.MinutesToSunset)
	require.Equal(t, 0, in.Weather.PrecipitationProbability)
}
