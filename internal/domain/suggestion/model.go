package suggestion

import (
	"context"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/infra/llm/chatgpt"
)

// Config wires runtime options for the generator adapter.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string

	MinSuggestions        int
	MaxSuggestions        int
	LongActivityThreshold int
	LongActivityMinimum   int
}

func (c Config) withDefaults() Config {
	if c.MinSuggestions <= 0 {
		c.MinSuggestions = 3
	}
	if c.MaxSuggestions < c.MinSuggestions {
		c.MaxSuggestions = c.MinSuggestions + 2
	}
	if c.LongActivityThreshold <= 0 {
		c.LongActivityThreshold = 120
	}
	if c.LongActivityMinimum <= 0 {
		c.LongActivityMinimum = 60
	}
	return c
}

// ChatClient is the generation service.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// WeatherProvider fetches a weather snapshot, optionally with tomorrow's summary.
type WeatherProvider interface {
	Fetch(ctx context.Context, coords activity.Coords, forecastDays int) (activity.WeatherSnapshot, error)
}

// Instructions is everything the generator is told for one call. Duration and
// count bounds are requests to the generator; results are not clamped.
type Instructions struct {
	AvailableTimeMinutes int
	MinDurationMinutes   int
	MinCount             int
	MaxCount             int
	Emphasis             daylight.Emphasis
	MinutesToSunset      *int
	Weather              *activity.WeatherPayload
	Target               *activity.ActivityRef
}

// MinDaylight is how many of count suggestions are asked to need daylight.
func (i Instructions) MinDaylight(count int) int {
	if i.Emphasis != daylight.EmphasisDaylight {
		return 0
	}
	return (count + 1) / 2
}

// generated is one validated item from the generator's output.
type generated struct {
	Name            string
	DurationMinutes int
	WeatherTipShort string
	WeatherTipLong  string
}
