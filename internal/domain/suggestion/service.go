// Package suggestion turns a decision context into generated activity
// suggestions and merges in the owner's custom activities.
package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/domain/weathertip"
	"github.com/yanqian/pocket-activities/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

// Service exposes generation with a soft-fail contract: failures are logged
// and surface as empty results, never as errors.
type Service interface {
	Suggest(ctx context.Context, in activity.Context, customs []activity.Activity) []activity.Activity
	Refresh(ctx context.Context, in activity.Context) (activity.Activity, bool)
	TomorrowTip(ctx context.Context, activityName string, coords *activity.Coords) string
}

type service struct {
	cfg     Config
	client  ChatClient
	weather WeatherProvider
	checker daylight.Checker
	logger  *slog.Logger
	pick    func(n int) int
	newID   func(name string) string
}

// NewService wires the suggestion generator adapter.
func NewService(cfg Config, client ChatClient, weather WeatherProvider, checker daylight.Checker, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg.withDefaults(),
		client:  client,
		weather: weather,
		checker: checker,
		logger:  logger.With("component", "suggestion.service"),
		pick:    rand.IntN,
		newID:   generatedID,
	}
}

func (s *service) Suggest(ctx context.Context, in activity.Context, customs []activity.Activity) []activity.Activity {
	if in.IsReevaluation() {
		refreshed, ok := s.Refresh(ctx, in)
		if !ok {
			return []activity.Activity{}
		}
		return []activity.Activity{refreshed}
	}

	emphasis := daylight.Decide(ctx, in.MinutesToSunset, in.Coords, s.checker)
	instr := BuildInstructions(s.cfg, in, emphasis)
	items, err := s.generate(ctx, batchPrompt(instr))
	if err != nil {
		s.logger.Warn("suggestion generation failed", "error", err, "availableMinutes", in.AvailableTimeMinutes)
		return []activity.Activity{}
	}
	if len(items) == 0 {
		s.logger.Info("suggestion generation returned no items", "availableMinutes", in.AvailableTimeMinutes)
		return []activity.Activity{}
	}
	if len(items) < instr.MinCount || len(items) > instr.MaxCount {
		s.logger.Info("suggestion count outside requested range", "count", len(items), "min", instr.MinCount, "max", instr.MaxCount)
	}

	out := make([]activity.Activity, 0, len(items)+1)
	for _, item := range items {
		suggested := activity.Activity{
			ID:              s.newID(item.Name),
			Name:            item.Name,
			DurationMinutes: item.DurationMinutes,
			DaylightNeeded:  weathertip.ClassifyDaylight(item.Name),
			WeatherTipShort: item.WeatherTipShort,
			WeatherTipLong:  item.WeatherTipLong,
		}
		out = append(out, weathertip.Attach(suggested, in.Weather, weathertip.IsOutdoor(suggested)))
	}
	s.logger.Info("suggestions generated", "count", len(out), "emphasis", emphasis)
	return mergeCustom(out, customs, in.AvailableTimeMinutes, in.DaylightNeeded, s.pick)
}

// Refresh re-evaluates a single activity against fresh weather. The result
// carries no id; callers keep the identity of the activity they refreshed.
func (s *service) Refresh(ctx context.Context, in activity.Context) (activity.Activity, bool) {
	if in.ActivityToUpdate == nil || in.Weather == nil {
		return activity.Activity{}, false
	}
	instr := Instructions{Weather: in.Weather, Target: in.ActivityToUpdate}
	items, err := s.generate(ctx, updatePrompt(instr))
	if err != nil {
		s.logger.Warn("activity refresh failed", "activity", in.ActivityToUpdate.Name, "error", err)
		return activity.Activity{}, false
	}
	if len(items) == 0 {
		s.logger.Info("activity refresh returned no items", "activity", in.ActivityToUpdate.Name)
		return activity.Activity{}, false
	}
	first := items[0]
	refreshed := activity.Activity{
		Name:            in.ActivityToUpdate.Name,
		DurationMinutes: in.ActivityToUpdate.DurationMinutes,
		DaylightNeeded:  true,
		WeatherTipShort: first.WeatherTipShort,
		WeatherTipLong:  first.WeatherTipLong,
	}
	return weathertip.Attach(refreshed, in.Weather, true), true
}

// TomorrowTip asks for a conversational tip based on tomorrow's forecast and
// falls back to a generic sentence whenever the forecast or generation fails.
func (s *service) TomorrowTip(ctx context.Context, activityName string, coords *activity.Coords) string {
	fallback := fmt.Sprintf("The weather for tomorrow is currently unavailable, but it should still be a great time for a %s!", activityName)
	if coords == nil || s.weather == nil {
		return fallback
	}
	snapshot, err := s.weather.Fetch(ctx, *coords, 2)
	if err != nil {
		s.logger.Warn("tomorrow forecast failed", "error", err)
		return fallback
	}
	if snapshot.Tomorrow == nil {
		return fallback
	}
	content, err := s.complete(ctx, tomorrowPrompt(activityName, *snapshot.Tomorrow))
	if err != nil {
		s.logger.Warn("tomorrow tip generation failed", "error", err)
		return fallback
	}
	tip, err := parseTomorrowTip(content)
	if err != nil {
		s.logger.Warn("tomorrow tip malformed", "error", err)
		return fallback
	}
	return tip
}

func (s *service) generate(ctx context.Context, prompt string) ([]generated, error) {
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	items, err := parseSuggestions(content)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeGenerationError, "generator response malformed", err)
	}
	return items, nil
}

func (s *service) complete(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", apperrors.Wrap(apperrors.CodeGenerationError, "generation service not configured", nil)
	}
	completion, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.systemPrompt()},
			{Role: "user", Content: prompt},
		},
		Temperature:    s.cfg.Temperature,
		ResponseFormat: chatgpt.JSONObject,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeGenerationError, "chatgpt request failed", err)
	}
	content := completion.Content()
	if content == "" {
		return "", apperrors.Wrap(apperrors.CodeGenerationError, "chatgpt returned no content", nil)
	}
	if usage := completion.Usage.TokenUsage(); !usage.IsZero() {
		s.logger.Debug("chatgpt usage", "usage", usage)
	}
	return content, nil
}

// mergeCustom prepends one random fitting custom activity unless a generated
// item already has the same name.
func mergeCustom(items, customs []activity.Activity, availableMinutes int, daylightNeeded bool, pick func(int) int) []activity.Activity {
	matching := activity.FilterFitting(customs, availableMinutes, daylightNeeded)
	if len(matching) == 0 {
		return items
	}
	chosen := matching[pick(len(matching))]
	for _, item := range items {
		if activity.SameName(item.Name, chosen.Name) {
			return items
		}
	}
	return append([]activity.Activity{chosen}, items...)
}

func generatedID(name string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return "ai-" + slug + "-" + uuid.NewString()
}
