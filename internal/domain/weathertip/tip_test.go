package weathertip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

func TestForThresholds(t *testing.T) {
	tests := []struct {
		name       string
		uv, precip int
		wantTip    bool
		wantSun    bool
		wantRain   bool
	}{
		{"uv only", 3, 0, true, true, false},
		{"rain only", 0, 25, true, false, true},
		{"both", 5, 30, true, true, true},
		{"neither", 2, 10, false, false, false},
		{"rain at threshold", 0, 20, true, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tip, ok := For(tc.uv, tc.precip)
			require.Equal(t, tc.wantTip, ok)
			if !ok {
				require.Equal(t, Tip{}, tip)
				return
			}
			for _, text := range []string{tip.Short, tip.Long} {
				lower := strings.ToLower(text)
				require.Equal(t, tc.wantSun, strings.Contains(lower, "sunscreen") || strings.Contains(lower, "uv"), text)
				require.Equal(t, tc.wantRain, strings.Contains(lower, "rain"), text)
			}
		})
	}
}

func TestAttach(t *testing.T) {
	walk := activity.Activity{Name: "Park walk", DurationMinutes: 30, DaylightNeeded: true}
	sunny := &activity.WeatherPayload{UVIndex: 6}
	calm := &activity.WeatherPayload{UVIndex: 1, PrecipitationProbability: 5}

	got := Attach(walk, sunny, true)
	require.Equal(t, sunTip.Short, got.WeatherTipShort)
	require.Equal(t, sunTip.Long, got.WeatherTipLong)

	withModelTip := walk
	withModelTip.WeatherTipLong = "Bright one today, grab sunscreen before the walk."
	got = Attach(withModelTip, sunny, true)
	require.Equal(t, withModelTip.WeatherTipLong, got.WeatherTipLong)
	require.Equal(t, sunTip.Short, got.WeatherTipShort)

	got = Attach(withModelTip, calm, true)
	require.Empty(t, got.WeatherTipShort)
	require.Empty(t, got.WeatherTipLong)

	got = Attach(withModelTip, sunny, false)
	require.Empty(t, got.WeatherTipLong)

	got = Attach(withModelTip, nil, true)
	require.Empty(t, got.WeatherTipLong)
}

func TestClassify(t *testing.T) {
	require.True(t, ClassifyDaylight("Go for a Hike"))
	require.True(t, ClassifyDaylight("Gardening"))
	require.True(t, ClassifyDaylight("Sketching in the park"))
	require.False(t, ClassifyDaylight("Read a novel"))
	require.False(t, ClassifyDaylight("Hiking"))
	require.True(t, ClassifyDaylight("Sunday brunch"))

	require.True(t, IsOutdoor(activity.Activity{Name: "Evening run"}))
	require.False(t, IsOutdoor(activity.Activity{Name: "Evening run", IsCustom: true}))
	require.True(t, IsOutdoor(activity.Activity{Name: "Pottery", IsCustom: true, DaylightNeeded: true}))
}
