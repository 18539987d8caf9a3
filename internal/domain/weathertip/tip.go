// Package weathertip maps UV and precipitation readings to advisory text for
// outdoor activities.
package weathertip

import "github.com/yanqian/pocket-activities/internal/domain/activity"

const (
	// UVThreshold is the UV index from which sunscreen is advised.
	UVThreshold = 3
	// PrecipitationThreshold is the rain probability (percent) from which rain gear is advised.
	PrecipitationThreshold = 20
)

// Tip carries the same advice in two tones.
type Tip struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

var (
	sunTip = Tip{
		Short: "High UV, wear sunscreen.",
		Long:  "With a high UV index, it's a good idea to wear sunscreen.",
	}
	rainTip = Tip{
		Short: "Chance of rain.",
		Long:  "There's a chance of rain, so bringing a raincoat would be wise.",
	}
	sunAndRainTip = Tip{
		Short: "High UV and chance of rain.",
		Long:  "The UV index is high and rain is possible, so pack sunscreen along with a raincoat.",
	}
)

// For returns the advisory for the given readings. The boolean is false when
// neither threshold is reached and no tip should be attached.
func For(uvIndex, precipitationProbability int) (Tip, bool) {
	sunny := uvIndex >= UVThreshold
	wet := precipitationProbability >= PrecipitationThreshold
	switch {
	case sunny && wet:
		return sunAndRainTip, true
	case sunny:
		return sunTip, true
	case wet:
		return rainTip, true
	default:
		return Tip{}, false
	}
}

// Attach enforces the tip policy on a single activity. Indoor activities and
// calm weather lose any tip; outdoor activities keep generator-supplied text
// and fall back to the policy text for whichever tone is missing.
func Attach(item activity.Activity, weather *activity.WeatherPayload, outdoor bool) activity.Activity {
	if weather == nil || !outdoor {
		item.WeatherTipShort = ""
		item.WeatherTipLong = ""
		return item
	}
	tip, ok := For(weather.UVIndex, weather.PrecipitationProbability)
	if !ok {
		item.WeatherTipShort = ""
		item.WeatherTipLong = ""
		return item
	}
	if item.WeatherTipShort == "" {
		item.WeatherTipShort = tip.Short
	}
	if item.WeatherTipLong == "" {
		item.WeatherTipLong = tip.Long
	}
	return item
}
