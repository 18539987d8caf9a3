package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/suggestion"
	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

// Config drives session lifetime and background work.
type Config struct {
	IdleTTL           time.Duration
	JanitorInterval   time.Duration
	CountdownInterval time.Duration
	FetchTimeout      time.Duration
	EventBuffer       int
}

func (c Config) withDefaults() Config {
	if c.IdleTTL <= 0 {
		c.IdleTTL = 2 * time.Hour
	}
	if c.JanitorInterval <= 0 {
		c.JanitorInterval = time.Minute
	}
	if c.CountdownInterval <= 0 {
		c.CountdownInterval = time.Minute
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 20 * time.Second
	}
	return c
}

// Created is returned when a session starts.
type Created struct {
	SessionID string `json:"sessionId"`
	OwnerID   string `json:"ownerId"`
	Token     string `json:"token"`
}

// Selection names exactly one suggestion or custom activity.
type Selection struct {
	SuggestionID string `json:"suggestionId"`
	CustomID     string `json:"customId"`
}

// EnvironmentFetcher loads weather and sunset for a location.
type EnvironmentFetcher interface {
	Fetch(ctx context.Context, coords activity.Coords) Reading
}

// Service manages sessions and runs the suggestion flow for each of them.
type Service interface {
	Create(ctx context.Context, ownerID string) (Created, error)
	Authenticate(token string) (Claims, error)
	View(ctx context.Context, sessionID string) (View, error)
	UpdatePreferences(ctx context.Context, sessionID string, prefs Preferences) (View, error)
	Suggest(ctx context.Context, sessionID string) (View, error)
	Select(ctx context.Context, sessionID string, sel Selection) (View, error)
	Reset(ctx context.Context, sessionID string) (View, error)
	ReportLocation(ctx context.Context, sessionID string, coords activity.Coords) (View, error)
	ReportLocationDenied(ctx context.Context, sessionID, reason string) (View, error)
	TomorrowTip(ctx context.Context, sessionID string) (string, error)
	Subscribe(sessionID string) (<-chan Event, func(), error)
	// Touch marks the session as active without changing its state.
	Touch(sessionID string) error
	CustomDeleted(ownerID, customID string)
	ExpireIdle(now time.Time) int
	RunJanitor(ctx context.Context)
	Shutdown()
}

type session struct {
	mu        sync.Mutex
	id        string
	ownerID   string
	state     State
	seq       uint64
	lastSeen  time.Time
	countdown *countdown
	events    *hub
	closed    bool
}

type service struct {
	cfg       Config
	customs   activity.CustomService
	generator suggestion.Service
	env       EnvironmentFetcher
	tokens    *TokenIssuer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	spawn   func(task func())
}

// NewService wires the session manager.
func NewService(cfg Config, customs activity.CustomService, generator suggestion.Service, env EnvironmentFetcher, tokens *TokenIssuer, logger *slog.Logger) Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &service{
		cfg:       cfg.withDefaults(),
		customs:   customs,
		generator: generator,
		env:       env,
		tokens:    tokens,
		logger:    logger.With("component", "session.service"),
		now:       time.Now,
		sessions:  make(map[string]*session),
		baseCtx:   ctx,
		cancel:    cancel,
		spawn:     func(task func()) { go task() },
	}
}

func (s *service) Create(ctx context.Context, ownerID string) (Created, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		ownerID = uuid.NewString()
	}
	if len(ownerID) > 128 {
		return Created{}, apperrors.Wrap(apperrors.CodeInvalidInput, "owner id too long", nil)
	}
	sess := &session{
		id:       uuid.NewString(),
		ownerID:  ownerID,
		state:    NewState(),
		lastSeen: s.now(),
		events:   newHub(s.cfg.EventBuffer),
	}
	token, err := s.tokens.Issue(sess.id, ownerID)
	if err != nil {
		return Created{}, err
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session created", "sessionId", sess.id, "ownerId", ownerID)
	return Created{SessionID: sess.id, OwnerID: ownerID, Token: token}, nil
}

func (s *service) Authenticate(token string) (Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Claims{}, err
	}
	s.mu.RLock()
	_, ok := s.sessions[claims.SessionID]
	s.mu.RUnlock()
	if !ok {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "session expired", nil)
	}
	return claims, nil
}

func (s *service) View(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return buildView(sess.id, &sess.state, customs, s.now()), nil
}

func (s *service) UpdatePreferences(ctx context.Context, sessionID string, prefs Preferences) (View, error) {
	if prefs.Time <= 0 {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "time must be positive", nil)
	}
	unit, ok := activity.ParseTimeUnit(string(prefs.Unit))
	if !ok {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unit must be minutes or hours", nil)
	}
	prefs.Unit = unit
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	sess.state.Preferences = prefs
	return buildView(sess.id, &sess.state, customs, s.now()), nil
}

func (s *service) Suggest(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		s.logger.Warn("custom activities unavailable for merge", "sessionId", sess.id, "error", err)
		customs = nil
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.seq++
	seq := sess.seq
	sess.state.BeginSearch()
	in := Resolve(&sess.state, s.now())
	sess.mu.Unlock()

	items := s.generator.Suggest(ctx, in, customs)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.seq != seq {
		s.logger.Info("discarding superseded suggestions", "sessionId", sess.id, "seq", seq, "current", sess.seq)
	} else {
		sess.state.FinishSearch(items)
		sess.events.publish(Event{Type: EventSuggestionsReady, At: s.now(), Data: map[string]int{"count": len(items)}})
	}
	return buildView(sess.id, &sess.state, customs, s.now()), nil
}

func (s *service) Select(ctx context.Context, sessionID string, sel Selection) (View, error) {
	sel.SuggestionID = strings.TrimSpace(sel.SuggestionID)
	sel.CustomID = strings.TrimSpace(sel.CustomID)
	if (sel.SuggestionID == "") == (sel.CustomID == "") {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "provide exactly one of suggestionId or customId", nil)
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	var found bool
	if sel.SuggestionID != "" {
		found = sess.state.SelectSuggestion(sel.SuggestionID)
	} else {
		found = sess.state.SelectCustom(sel.CustomID, customs)
	}
	if !found {
		sess.mu.Unlock()
		return View{}, apperrors.Wrap(apperrors.CodeNotFound, "activity not found", nil)
	}
	fetchCoords := s.claimEnvironmentFetch(&sess.state, customs)
	req, armed := sess.state.armRefresh()
	view := buildView(sess.id, &sess.state, customs, s.now())
	sess.mu.Unlock()

	switch {
	case fetchCoords != nil:
		s.background(func(ctx context.Context) { s.refreshEnvironment(ctx, sess, *fetchCoords) })
	case armed:
		s.background(func(ctx context.Context) { s.runRefresh(ctx, sess, req) })
	}
	return view, nil
}

// claimEnvironmentFetch marks a fetch as running when a daylight activity is
// selected, weather is missing and a location is known.
func (s *service) claimEnvironmentFetch(st *State, customs []activity.Activity) *activity.Coords {
	selected, ok := st.Selected(customs)
	if !ok || !selected.DaylightNeeded {
		return nil
	}
	if st.Weather != nil || st.FetchingEnvironment || st.LocationError != "" || st.Coords == nil {
		return nil
	}
	st.FetchingEnvironment = true
	coords := *st.Coords
	return &coords
}

func (s *service) Reset(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	sess.seq++
	sess.state.Reset()
	sess.countdown.stop()
	sess.countdown = nil
	return buildView(sess.id, &sess.state, customs, s.now()), nil
}

func (s *service) ReportLocation(ctx context.Context, sessionID string, coords activity.Coords) (View, error) {
	if coords.Latitude < -90 || coords.Latitude > 90 || coords.Longitude < -180 || coords.Longitude > 180 {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates out of range", nil)
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.state.Coords = &coords
	sess.state.LocationError = ""
	sess.state.FetchingEnvironment = true
	sess.mu.Unlock()

	s.refreshEnvironment(ctx, sess, coords)
	return s.View(ctx, sessionID)
}

func (s *service) ReportLocationDenied(ctx context.Context, sessionID, reason string) (View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "permission denied"
	}
	message := "Could not get your location: " + reason
	s.logger.Info("location unavailable", "sessionId", sess.id, "code", apperrors.CodeLocationDenied, "reason", reason)

	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.state.LocationError = message
	sess.state.FetchingEnvironment = false
	sess.mu.Unlock()
	return s.View(ctx, sessionID)
}

func (s *service) TomorrowTip(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}
	customs, err := s.listCustoms(ctx, sess.ownerID)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	sess.lastSeen = s.now()
	selected, ok := sess.state.Selected(customs)
	var coords *activity.Coords
	if sess.state.Coords != nil {
		copied := *sess.state.Coords
		coords = &copied
	}
	sess.mu.Unlock()
	if !ok {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "no activity selected", nil)
	}
	return s.generator.TomorrowTip(ctx, selected.Name, coords), nil
}

func (s *service) Subscribe(sessionID string) (<-chan Event, func(), error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.events.subscribe()
	return ch, cancel, nil
}

func (s *service) Touch(sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.mu.Unlock()
	return nil
}

func (s *service) CustomDeleted(ownerID, customID string) {
	for _, sess := range s.snapshot() {
		if sess.ownerID != ownerID {
			continue
		}
		sess.mu.Lock()
		cleared := sess.state.ClearCustom(customID)
		sess.mu.Unlock()
		if cleared {
			sess.events.publish(Event{Type: EventSelectionCleared, At: s.now(), Data: map[string]string{"customId": customID}})
		}
	}
}

func (s *service) ExpireIdle(now time.Time) int {
	var expired []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen) > s.cfg.IdleTTL
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
	}
	s.mu.Unlock()
	for _, sess := range expired {
		s.closeSession(sess, EventExpired)
	}
	if len(expired) > 0 {
		s.logger.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

func (s *service) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireIdle(s.now())
		}
	}
}

func (s *service) Shutdown() {
	s.cancel()
	s.wg.Wait()
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		delete(s.sessions, id)
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		s.closeSession(sess, "")
	}
}

func (s *service) closeSession(sess *session, reason EventType) {
	sess.mu.Lock()
	sess.closed = true
	sess.countdown.stop()
	sess.countdown = nil
	sess.mu.Unlock()
	if reason != "" {
		sess.events.publish(Event{Type: reason, At: s.now()})
	}
	sess.events.close()
}

// refreshEnvironment fetches weather and sunset, commits them and runs the
// re-evaluation controller for the current selection.
func (s *service) refreshEnvironment(ctx context.Context, sess *session, coords activity.Coords) {
	reading := s.env.Fetch(ctx, coords)

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}
	if sunsetChanged := sess.state.applyReading(reading); sunsetChanged {
		s.restartCountdown(sess)
	}
	req, armed := sess.state.armRefresh()
	sess.mu.Unlock()

	sess.events.publish(Event{Type: EventEnvironmentUpdated, At: s.now()})
	if armed {
		s.runRefresh(ctx, sess, req)
	}
}

// runRefresh issues the refresh and keeps going while the selection moved on
// during the call, so the latest selection always gets its turn.
func (s *service) runRefresh(ctx context.Context, sess *session, req refreshRequest) {
	for {
		refreshed, ok := s.generator.Refresh(ctx, req.input)

		sess.mu.Lock()
		applied := sess.state.applyRefresh(req, refreshed, ok)
		var selected activity.Activity
		if applied {
			selected = *sess.state.SelectedSuggestion
		}
		var (
			next  refreshRequest
			again bool
		)
		if !sess.closed && ctx.Err() == nil {
			next, again = sess.state.armRefresh()
		}
		sess.mu.Unlock()

		if applied {
			sess.events.publish(Event{Type: EventSelectionRefreshed, At: s.now(), Data: selected})
		}
		if !again {
			return
		}
		req = next
	}
}

// restartCountdown must be called with sess.mu held. The countdown goroutine
// never takes sess.mu, so stopping it under the lock cannot deadlock.
func (s *service) restartCountdown(sess *session) {
	sess.countdown.stop()
	sess.countdown = nil
	if sess.state.Sunset == nil || !sess.state.Sunset.Sunset.After(s.now()) {
		return
	}
	events := sess.events
	sess.countdown = startCountdown(s.cfg.CountdownInterval, sess.state.Sunset.Sunset, s.now, func(text string, passed bool) {
		events.publish(Event{Type: EventCountdown, At: s.now(), Data: map[string]any{"text": text, "passed": passed}})
	})
}

func (s *service) background(task func(ctx context.Context)) {
	s.wg.Add(1)
	s.spawn(func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.FetchTimeout)
		defer cancel()
		task(ctx)
	})
}

func (s *service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	return sess, nil
}

func (s *service) snapshot() []*session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *service) listCustoms(ctx context.Context, ownerID string) ([]activity.Activity, error) {
	if s.customs == nil {
		return nil, nil
	}
	return s.customs.List(ctx, ownerID)
}
