package activity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleActivities() []Activity {
	return []Activity{
		{ID: "a", Name: "Read a chapter", DurationMinutes: 30},
		{ID: "b", Name: "Park walk", DurationMinutes: 45, DaylightNeeded: true},
		{ID: "c", Name: "Day hike", DurationMinutes: 240, DaylightNeeded: true},
		{ID: "d", Name: "Board game", DurationMinutes: 120},
		{ID: "e", Name: "Sketching outside", DurationMinutes: 121, DaylightNeeded: true},
	}
}

func TestFitsMatchesPredicate(t *testing.T) {
	for _, budget := range []int{0, 30, 45, 119, 120, 121, 240} {
		for _, daylight := range []bool{false, true} {
			for _, item := range sampleActivities() {
				want := item.DurationMinutes <= budget && (!daylight || item.DaylightNeeded)
				require.Equal(t, want, Fits(item, budget, daylight), "item=%s budget=%d daylight=%v", item.ID, budget, daylight)
			}
		}
	}
}

func TestFilterFittingHoursEqualMinutes(t *testing.T) {
	items := sampleActivities()
	inHours := FilterFitting(items, ToMinutes(2, UnitHours), false)
	inMinutes := FilterFitting(items, ToMinutes(120, UnitMinutes), false)
	require.Equal(t, inMinutes, inHours)
	require.Len(t, inHours, 3)

	daylightOnly := FilterFitting(items, ToMinutes(2, UnitHours), true)
	require.Equal(t, []Activity{items[1]}, daylightOnly)
}

func TestParseTimeUnit(t *testing.T) {
	unit, ok := ParseTimeUnit(" Hours ")
	require.True(t, ok)
	require.Equal(t, UnitHours, unit)

	unit, ok = ParseTimeUnit("")
	require.True(t, ok)
	require.Equal(t, UnitMinutes, unit)

	_, ok = ParseTimeUnit("days")
	require.False(t, ok)
}

func TestSameName(t *testing.T) {
	require.True(t, SameName("Gardening", " gardening"))
	require.False(t, SameName("Gardening", "Garden walk"))
}
