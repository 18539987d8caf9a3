//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/pocket-activities/internal/bootstrap"
	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/domain/session"
	"github.com/yanqian/pocket-activities/internal/domain/suggestion"
	"github.com/yanqian/pocket-activities/internal/infra/config"
	"github.com/yanqian/pocket-activities/internal/infra/llm/chatgpt"
	"github.com/yanqian/pocket-activities/internal/infra/sun/sunrisesunset"
	"github.com/yanqian/pocket-activities/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/pocket-activities/internal/interface/http"
	"github.com/yanqian/pocket-activities/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatGPTClient,
		provideSuggestionConfig,
		provideWeatherClient,
		provideSunClient,
		provideDaylightLookup,
		provideSessionConfig,
		provideTokenIssuer,
		provideCustomRepository,
		activity.NewCustomService,
		suggestion.NewService,
		session.NewEnvironment,
		session.NewService,
		wire.Bind(new(suggestion.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(suggestion.WeatherProvider), new(*openmeteo.Client)),
		wire.Bind(new(daylight.SunProvider), new(*sunrisesunset.Client)),
		wire.Bind(new(daylight.Checker), new(*daylight.Lookup)),
		wire.Bind(new(session.EnvironmentFetcher), new(*session.Environment)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
