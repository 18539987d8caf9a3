package suggestion

import (
	"fmt"
	"strings"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/domain/weathertip"
)

// BuildInstructions derives the generator instructions for a batch request.
func BuildInstructions(cfg Config, in activity.Context, emphasis daylight.Emphasis) Instructions {
	cfg = cfg.withDefaults()
	instr := Instructions{
		AvailableTimeMinutes: in.AvailableTimeMinutes,
		MinCount:             cfg.MinSuggestions,
		MaxCount:             cfg.MaxSuggestions,
		Emphasis:             emphasis,
		MinutesToSunset:      in.MinutesToSunset,
		Weather:              in.Weather,
		Target:               in.ActivityToUpdate,
	}
	if in.AvailableTimeMinutes > cfg.LongActivityThreshold {
		instr.MinDurationMinutes = cfg.LongActivityMinimum
	}
	return instr
}

func (s *service) systemPrompt() string {
	base := strings.TrimSpace(s.cfg.Prompt)
	if base == "" {
		base = "You are an activity suggestion expert."
	}
	enforcer := " Respond ONLY with valid minified JSON using this shape: {\"suggestions\":[{\"activity\":string,\"duration\":number,\"weatherTipShort\":string,\"weatherTipLong\":string}]}. Durations are whole minutes. Omit the tip fields when no tip applies. Never return plain text or other fields."
	return base + enforcer
}

func batchPrompt(instr Instructions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user has %d minutes free.\n", instr.AvailableTimeMinutes)
	b.WriteString("Each suggestion must have a duration that is less than or equal to the available time.\n")
	if instr.MinDurationMinutes > 0 {
		fmt.Fprintf(&b, "Every suggestion must last at least %d minutes and at most %d minutes.\n", instr.MinDurationMinutes, instr.AvailableTimeMinutes)
	}
	switch {
	case instr.Emphasis == daylight.EmphasisDaylight && instr.MinutesToSunset != nil && *instr.MinutesToSunset > 0:
		fmt.Fprintf(&b, "There are %d minutes until sunset, so at least half of the suggestions (at least %d of %d) should require daylight.\n",
			*instr.MinutesToSunset, instr.MinDaylight(instr.MinCount), instr.MinCount)
	case instr.Emphasis == daylight.EmphasisDaylight:
		fmt.Fprintf(&b, "It is currently daytime, so at least half of the suggestions (at least %d of %d) should require daylight.\n",
			instr.MinDaylight(instr.MinCount), instr.MinCount)
	default:
		b.WriteString("Suggest a mix of indoor and outdoor activities.\n")
	}
	b.WriteString("Examples of daylight activities are a day hike (4 hours), gardening (1 hour) or sketching (1-2 hours).\n")
	if instr.Weather != nil {
		b.WriteString("For outdoor activities provide a weatherTipShort (a brief summary) and a weatherTipLong (a conversational version). Activities that require daylight are outdoor activities. Do not provide tips for indoor activities.\n")
		writeWeatherRules(&b, *instr.Weather)
	}
	fmt.Fprintf(&b, "Suggest between %d and %d activities.", instr.MinCount, instr.MaxCount)
	return b.String()
}

func updatePrompt(instr Instructions) string {
	var b strings.Builder
	b.WriteString("A user wants an updated weather tip for the following activity:\n")
	fmt.Fprintf(&b, "Activity: %s\nDuration: %d minutes\n", instr.Target.Name, instr.Target.DurationMinutes)
	b.WriteString("The activity is an outdoor activity. Use the weather below to write a weatherTipShort and a weatherTipLong.\n")
	if instr.Weather != nil {
		writeWeatherRules(&b, *instr.Weather)
	}
	b.WriteString("Return exactly one suggestion echoing the original activity name and duration, plus the new weather tips.")
	return b.String()
}

func writeWeatherRules(b *strings.Builder, w activity.WeatherPayload) {
	fmt.Fprintf(b, "Current weather: UV index %d, chance of rain in the next hour %d%%.\n", w.UVIndex, w.PrecipitationProbability)
	fmt.Fprintf(b, "- If the UV index is %d or higher, advise sunscreen.\n", weathertip.UVThreshold)
	fmt.Fprintf(b, "- If the chance of rain is %d%% or higher, advise bringing a raincoat.\n", weathertip.PrecipitationThreshold)
	b.WriteString("- If both apply, combine them or pick the most relevant.\n")
	b.WriteString("- If neither applies, omit the tips.\n")
}

func tomorrowPrompt(name string, forecast activity.DayForecast) string {
	var b strings.Builder
	b.WriteString("A user wants to do an outdoor activity tomorrow.\n")
	fmt.Fprintf(&b, "Activity: %s\n", name)
	fmt.Fprintf(&b, "Tomorrow's forecast: %s, max UV index %d, max chance of rain %d%%.\n", forecast.Conditions, forecast.UVIndex, forecast.PrecipitationProbability)
	b.WriteString("Write one conversational weatherTipLong that starts by acknowledging the forecast is for tomorrow.\n")
	fmt.Fprintf(&b, "Mention sunscreen if the UV index is %d or higher and the possibility of rain if the chance is %d%% or higher. Be encouraging when the weather is clear and frame advice positively.\n", weathertip.UVThreshold, weathertip.PrecipitationThreshold)
	b.WriteString("Respond ONLY with minified JSON of the shape {\"weatherTipLong\":string}.")
	return b.String()
}
