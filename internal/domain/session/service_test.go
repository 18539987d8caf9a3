package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

type stubGenerator struct {
	mu           sync.Mutex
	items        []activity.Activity
	inputs       []activity.Context
	refreshIn    []activity.Context
	refreshed    activity.Activity
	refreshOK    bool
	tomorrow     string
	tomorrowName string
	onSuggest    func()
}

func (g *stubGenerator) Suggest(_ context.Context, in activity.Context, _ []activity.Activity) []activity.Activity {
	g.mu.Lock()
	g.inputs = append(g.inputs, in)
	hook := g.onSuggest
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	return append([]activity.Activity(nil), g.items...)
}

func (g *stubGenerator) Refresh(_ context.Context, in activity.Context) (activity.Activity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refreshIn = append(g.refreshIn, in)
	return g.refreshed, g.refreshOK
}

func (g *stubGenerator) TomorrowTip(_ context.Context, name string, _ *activity.Coords) string {
	g.tomorrowName = name
	return g.tomorrow
}

type stubEnv struct {
	readings []Reading
	calls    int
}

func (e *stubEnv) Fetch(context.Context, activity.Coords) Reading {
	e.calls++
	if len(e.readings) == 0 {
		return Reading{}
	}
	r := e.readings[0]
	if len(e.readings) > 1 {
		e.readings = e.readings[1:]
	}
	return r
}

type stubCustoms struct {
	items map[string][]activity.Activity
}

func (s *stubCustoms) List(_ context.Context, ownerID string) ([]activity.Activity, error) {
	return s.items[ownerID], nil
}

func (s *stubCustoms) Get(_ context.Context, ownerID, id string) (activity.Activity, error) {
	for _, item := range s.items[ownerID] {
		if item.ID == id {
			return item, nil
		}
	}
	return activity.Activity{}, apperrors.Wrap(apperrors.CodeNotFound, "missing", nil)
}

func (s *stubCustoms) Create(context.Context, string, activity.Draft) (activity.Activity, error) {
	return activity.Activity{}, errors.New("not used")
}

func (s *stubCustoms) Update(context.Context, string, string, activity.Draft) (activity.Activity, error) {
	return activity.Activity{}, errors.New("not used")
}

func (s *stubCustoms) Delete(_ context.Context, ownerID, id string) error {
	items := s.items[ownerID]
	for i, item := range items {
		if item.ID == id {
			s.items[ownerID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

var testNow = time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, gen *stubGenerator, env *stubEnv, customs *stubCustoms) *service {
	t.Helper()
	if customs == nil {
		customs = &stubCustoms{items: map[string][]activity.Activity{}}
	}
	svc := NewService(Config{}, customs, gen, env, NewTokenIssuer("test-secret", time.Hour), slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return testNow }
	svc.spawn = func(task func()) { task() }
	t.Cleanup(svc.Shutdown)
	return svc
}

func sunnyReading() Reading {
	precip := 0
	return Reading{
		Weather: &activity.WeatherSnapshot{Temperature: 75, Conditions: "Clear sky", UVIndex: 6, PrecipitationProbability: &precip},
		Sunset:  &activity.SunsetInfo{Sunrise: testNow.Add(-11 * time.Hour), Sunset: testNow.Add(90 * time.Minute)},
	}
}

func TestSuggestFlow(t *testing.T) {
	gen := &stubGenerator{items: sampleSuggestions()}
	svc := newTestService(t, gen, &stubEnv{}, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, created.OwnerID)

	view, err := svc.View(ctx, created.SessionID)
	require.NoError(t, err)
	require.Equal(t, PhaseIdle, view.Phase)
	require.False(t, view.HasSearched)
	require.Empty(t, view.Suggestions)

	_, err = svc.UpdatePreferences(ctx, created.SessionID, Preferences{Time: 1, Unit: activity.UnitHours})
	require.NoError(t, err)

	view, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	require.True(t, view.HasSearched)
	require.Equal(t, PhasePopulated, view.Phase)
	require.Len(t, view.Suggestions, 2)
	require.Equal(t, 60, gen.inputs[0].AvailableTimeMinutes)
	require.Nil(t, gen.inputs[0].MinutesToSunset)
	require.Nil(t, gen.inputs[0].Weather)

	view, err = svc.UpdatePreferences(ctx, created.SessionID, Preferences{Time: 2, Unit: "Hours"})
	require.NoError(t, err)
	require.Equal(t, activity.UnitHours, view.Preferences.Unit)

	_, err = svc.UpdatePreferences(ctx, created.SessionID, Preferences{Time: 0, Unit: activity.UnitMinutes})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.UpdatePreferences(ctx, created.SessionID, Preferences{Time: 5, Unit: "days"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSuggestEmptyResultIsDistinctFromIdle(t *testing.T) {
	svc := newTestService(t, &stubGenerator{}, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, "owner-1", created.OwnerID)

	view, err := svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	require.True(t, view.HasSearched)
	require.Empty(t, view.Suggestions)
	require.Equal(t, PhasePopulated, view.Phase)
}

func TestSuggestDiscardsSupersededResult(t *testing.T) {
	gen := &stubGenerator{items: sampleSuggestions()}
	svc := newTestService(t, gen, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)

	gen.onSuggest = func() {
		_, resetErr := svc.Reset(ctx, created.SessionID)
		require.NoError(t, resetErr)
	}
	view, err := svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	require.False(t, view.HasSearched)
	require.Empty(t, view.Suggestions)
	require.Equal(t, PhaseIdle, view.Phase)
}

func TestSelectExclusivityAcrossKinds(t *testing.T) {
	customs := &stubCustoms{items: map[string][]activity.Activity{"owner-1": sampleCustoms()}}
	svc := newTestService(t, &stubGenerator{items: sampleSuggestions()}, &stubEnv{}, customs)
	ctx := context.Background()
	created, err := svc.Create(ctx, "owner-1")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)

	view, err := svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-read-2"})
	require.NoError(t, err)
	require.Equal(t, "ai-read-2", view.Selected.ID)

	view, err = svc.Select(ctx, created.SessionID, Selection{CustomID: "custom-b"})
	require.NoError(t, err)
	require.Equal(t, "custom-b", view.Selected.ID)
	require.True(t, view.SelectedIsCustom)

	sess, err := svc.lookup(created.SessionID)
	require.NoError(t, err)
	require.Nil(t, sess.state.SelectedSuggestion)
	require.Equal(t, "custom-b", sess.state.SelectedCustomID)

	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-read-2", CustomID: "custom-b"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Select(ctx, created.SessionID, Selection{CustomID: "custom-zzz"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSelectDoesNotFitNotice(t *testing.T) {
	svc := newTestService(t, &stubGenerator{items: sampleSuggestions()}, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)

	view, err := svc.UpdatePreferences(ctx, created.SessionID, Preferences{Time: 10, Unit: activity.UnitMinutes})
	require.NoError(t, err)
	require.NotNil(t, view.Selected)
	require.False(t, view.SelectedFits)
	require.True(t, view.Notices.DoesNotFit)
}

func TestLocationTriggersReevaluationOnce(t *testing.T) {
	gen := &stubGenerator{
		items:     sampleSuggestions(),
		refreshed: activity.Activity{Name: "Park walk", WeatherTipShort: "High UV.", WeatherTipLong: "Wear sunscreen today."},
		refreshOK: true,
	}
	env := &stubEnv{readings: []Reading{sunnyReading()}}
	svc := newTestService(t, gen, env, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)

	view, err := svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)
	require.True(t, view.Notices.LocationRequired)
	require.True(t, view.Notices.WeatherTipUnavailable)
	require.Zero(t, env.calls)

	events, cancel, err := svc.Subscribe(created.SessionID)
	require.NoError(t, err)
	defer cancel()

	view, err = svc.ReportLocation(ctx, created.SessionID, activity.Coords{Latitude: 1.3, Longitude: 103.8})
	require.NoError(t, err)
	require.Equal(t, 1, env.calls)
	require.Len(t, gen.refreshIn, 1)
	require.Equal(t, "Park walk", gen.refreshIn[0].ActivityToUpdate.Name)
	require.Equal(t, 6, gen.refreshIn[0].Weather.UVIndex)
	require.Equal(t, "ai-park-walk-1", view.Selected.ID)
	require.Equal(t, "Wear sunscreen today.", view.Selected.WeatherTipLong)
	require.False(t, view.Notices.LocationRequired)
	require.Equal(t, "in 1 hour 30 minutes", view.SunsetCountdown)
	for _, item := range view.Suggestions {
		require.Empty(t, item.WeatherTipLong)
	}

	require.Equal(t, EventEnvironmentUpdated, (<-events).Type)
	require.Equal(t, EventSelectionRefreshed, (<-events).Type)

	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	last := gen.inputs[len(gen.inputs)-1]
	require.NotNil(t, last.MinutesToSunset)
	require.Equal(t, 90, *last.MinutesToSunset)
	require.Equal(t, 6, last.Weather.UVIndex)
}

func TestReevaluationFollowsSelectionChangedMidRefresh(t *testing.T) {
	gen := &stubGenerator{
		items:     sampleSuggestions(),
		refreshed: activity.Activity{WeatherTipShort: "High UV.", WeatherTipLong: "Wear sunscreen today."},
		refreshOK: true,
	}
	env := &stubEnv{readings: []Reading{sunnyReading()}}
	svc := newTestService(t, gen, env, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	_, err = svc.ReportLocation(ctx, created.SessionID, activity.Coords{Latitude: 1.3, Longitude: 103.8})
	require.NoError(t, err)
	require.Empty(t, gen.refreshIn)

	var queued []func()
	svc.spawn = func(task func()) { queued = append(queued, task) }

	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)
	view, err := svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-hike-3"})
	require.NoError(t, err)
	require.True(t, view.Notices.WeatherTipPending)
	require.Len(t, queued, 1)

	for len(queued) > 0 {
		task := queued[0]
		queued = queued[1:]
		task()
	}

	require.Len(t, gen.refreshIn, 2)
	require.Equal(t, "Park walk", gen.refreshIn[0].ActivityToUpdate.Name)
	require.Equal(t, "Day hike", gen.refreshIn[1].ActivityToUpdate.Name)

	view, err = svc.View(ctx, created.SessionID)
	require.NoError(t, err)
	require.Equal(t, "ai-hike-3", view.Selected.ID)
	require.Equal(t, "Wear sunscreen today.", view.Selected.WeatherTipLong)
	require.False(t, view.Notices.WeatherTipPending)
	require.False(t, view.Notices.WeatherTipUnavailable)
}

func TestReevaluationFailureDoesNotRepeat(t *testing.T) {
	gen := &stubGenerator{items: sampleSuggestions(), refreshOK: false}
	env := &stubEnv{readings: []Reading{sunnyReading()}}
	svc := newTestService(t, gen, env, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	_, err = svc.ReportLocation(ctx, created.SessionID, activity.Coords{Latitude: 1.3, Longitude: 103.8})
	require.NoError(t, err)

	view, err := svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)
	require.Len(t, gen.refreshIn, 1)
	require.Empty(t, view.Selected.WeatherTipLong)

	view, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)
	require.Len(t, gen.refreshIn, 1)
	require.True(t, view.Notices.WeatherTipUnavailable)
}

func TestSelectFetchesEnvironmentWhenWeatherMissing(t *testing.T) {
	gen := &stubGenerator{
		items:     sampleSuggestions(),
		refreshed: activity.Activity{WeatherTipShort: "High UV.", WeatherTipLong: "Wear sunscreen today."},
		refreshOK: true,
	}
	env := &stubEnv{readings: []Reading{
		{WeatherErr: errors.New("weather down"), SunsetErr: errors.New("status INVALID_REQUEST")},
		sunnyReading(),
	}}
	svc := newTestService(t, gen, env, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)

	view, err := svc.ReportLocation(ctx, created.SessionID, activity.Coords{Latitude: 1.3, Longitude: 103.8})
	require.NoError(t, err)
	require.Nil(t, view.Weather)
	require.Len(t, view.Notices.ProviderErrors, 2)

	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)
	require.Equal(t, 2, env.calls)

	view, err = svc.View(ctx, created.SessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Weather)
	require.Empty(t, view.Notices.ProviderErrors)
	require.Equal(t, "Wear sunscreen today.", view.Selected.WeatherTipLong)
}

func TestLocationDenied(t *testing.T) {
	env := &stubEnv{}
	svc := newTestService(t, &stubGenerator{items: sampleSuggestions()}, env, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-park-walk-1"})
	require.NoError(t, err)

	view, err := svc.ReportLocationDenied(ctx, created.SessionID, "User denied Geolocation")
	require.NoError(t, err)
	require.Equal(t, "Could not get your location: User denied Geolocation", view.Notices.LocationError)
	require.False(t, view.Notices.LocationRequired)
	require.True(t, view.Notices.WeatherTipUnavailable)
	require.NotNil(t, view.Selected)
	require.Zero(t, env.calls)

	_, err = svc.ReportLocation(ctx, created.SessionID, activity.Coords{Latitude: 120, Longitude: 0})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestCustomDeletedClearsSelection(t *testing.T) {
	customs := &stubCustoms{items: map[string][]activity.Activity{"owner-1": sampleCustoms()}}
	svc := newTestService(t, &stubGenerator{}, &stubEnv{}, customs)
	ctx := context.Background()
	first, err := svc.Create(ctx, "owner-1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "owner-1")
	require.NoError(t, err)
	_, err = svc.Select(ctx, first.SessionID, Selection{CustomID: "custom-a"})
	require.NoError(t, err)
	_, err = svc.Select(ctx, second.SessionID, Selection{CustomID: "custom-a"})
	require.NoError(t, err)

	require.NoError(t, customs.Delete(ctx, "owner-1", "custom-a"))
	svc.CustomDeleted("owner-1", "custom-a")

	for _, id := range []string{first.SessionID, second.SessionID} {
		view, err := svc.View(ctx, id)
		require.NoError(t, err)
		require.Nil(t, view.Selected)
		require.Equal(t, PhaseIdle, view.Phase)
	}
}

func TestTomorrowTip(t *testing.T) {
	gen := &stubGenerator{items: sampleSuggestions(), tomorrow: "Tomorrow looks bright."}
	svc := newTestService(t, gen, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)

	_, err = svc.TomorrowTip(ctx, created.SessionID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Suggest(ctx, created.SessionID)
	require.NoError(t, err)
	_, err = svc.Select(ctx, created.SessionID, Selection{SuggestionID: "ai-hike-3"})
	require.NoError(t, err)
	tip, err := svc.TomorrowTip(ctx, created.SessionID)
	require.NoError(t, err)
	require.Equal(t, "Tomorrow looks bright.", tip)
	require.Equal(t, "Day hike", gen.tomorrowName)
}

func TestAuthenticateAndExpire(t *testing.T) {
	svc := newTestService(t, &stubGenerator{}, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "owner-1")
	require.NoError(t, err)

	claims, err := svc.Authenticate(created.Token)
	require.NoError(t, err)
	require.Equal(t, created.SessionID, claims.SessionID)
	require.Equal(t, "owner-1", claims.OwnerID)

	events, _, err := svc.Subscribe(created.SessionID)
	require.NoError(t, err)

	require.Zero(t, svc.ExpireIdle(testNow.Add(time.Hour)))
	require.Equal(t, 1, svc.ExpireIdle(testNow.Add(3*time.Hour)))

	ev, open := <-events
	require.True(t, open)
	require.Equal(t, EventExpired, ev.Type)
	_, open = <-events
	require.False(t, open)

	_, err = svc.Authenticate(created.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
	_, err = svc.View(ctx, created.SessionID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestTouchKeepsListeningSessionAlive(t *testing.T) {
	svc := newTestService(t, &stubGenerator{}, &stubEnv{}, nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	require.NoError(t, svc.Touch(created.SessionID))

	require.Zero(t, svc.ExpireIdle(testNow.Add(3*time.Hour)))
	require.Equal(t, 1, svc.ExpireIdle(testNow.Add(5*time.Hour)))
	require.True(t, apperrors.IsCode(svc.Touch(created.SessionID), apperrors.CodeNotFound))
}
