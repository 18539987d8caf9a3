package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
	"github.com/yanqian/pocket-activities/internal/domain/daylight"
	"github.com/yanqian/pocket-activities/internal/domain/session"
	"github.com/yanqian/pocket-activities/internal/domain/suggestion"
	"github.com/yanqian/pocket-activities/internal/infra/config"
	"github.com/yanqian/pocket-activities/internal/infra/customrepo"
	"github.com/yanqian/pocket-activities/internal/infra/llm/chatgpt"
	"github.com/yanqian/pocket-activities/internal/infra/sun/sunrisesunset"
	"github.com/yanqian/pocket-activities/internal/infra/weather/openmeteo"
)

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideSuggestionConfig(cfg *config.Config) suggestion.Config {
	return suggestion.Config{
		Model:                 cfg.LLM.Model,
		Temperature:           cfg.LLM.Temperature,
		Prompt:                cfg.Suggestions.Prompt,
		MinSuggestions:        cfg.Suggestions.MinSuggestions,
		MaxSuggestions:        cfg.Suggestions.MaxSuggestions,
		LongActivityThreshold: cfg.Suggestions.LongActivityThreshold,
		LongActivityMinimum:   cfg.Suggestions.LongActivityMinimum,
	}
}

func provideWeatherClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideSunClient(cfg *config.Config) *sunrisesunset.Client {
	return sunrisesunset.NewClient(cfg.Sun.BaseURL, cfg.Sun.Timeout)
}

func provideDaylightLookup(cfg *config.Config, sun *sunrisesunset.Client, logger *slog.Logger) *daylight.Lookup {
	fallback := activity.Coords{Latitude: cfg.Sun.FallbackLatitude, Longitude: cfg.Sun.FallbackLongitude}
	return daylight.NewLookup(sun, fallback, logger)
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		IdleTTL:           cfg.Session.IdleTTL,
		JanitorInterval:   cfg.Session.JanitorInterval,
		CountdownInterval: cfg.Session.CountdownInterval,
		FetchTimeout:      cfg.Session.FetchTimeout,
		EventBuffer:       cfg.Session.EventBuffer,
	}
}

func provideTokenIssuer(cfg *config.Config) *session.TokenIssuer {
	return session.NewTokenIssuer(cfg.Session.TokenSecret, cfg.Session.TokenTTL)
}

func provideCustomRepository(cfg *config.Config, logger *slog.Logger) activity.Repository {
	store := cfg.CustomStore
	switch strings.ToLower(strings.TrimSpace(store.Driver)) {
	case config.DriverValkey:
		if repo := newValkeyRepository(store.Valkey, logger); repo != nil {
			return repo
		}
	case config.DriverPostgres:
		if repo := newPostgresRepository(store.Postgres, logger); repo != nil {
			return repo
		}
	case config.DriverSQLite:
		if repo := newSQLiteRepository(store.SQLite, logger); repo != nil {
			return repo
		}
	default:
		logger.Info("custom activities stored in memory")
	}
	return customrepo.NewMemoryRepository()
}

func newValkeyRepository(cfg config.ValkeyConfig, logger *slog.Logger) activity.Repository {
	opt, err := buildValkeyOptions(cfg.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory repository", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory repository", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory repository", "error", err)
		client.Close()
		return nil
	}
	logger.Info("custom activity valkey repository enabled", "addr", cfg.Addr)
	return customrepo.NewValkeyRepository(client, cfg.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func newPostgresRepository(cfg config.PostgresConfig, logger *slog.Logger) activity.Repository {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return nil
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return nil
	}
	repo := customrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory repository", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("custom activity postgres repository enabled")
	return repo
}

func newSQLiteRepository(cfg config.SQLiteConfig, logger *slog.Logger) activity.Repository {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create sqlite directory, using memory repository", "error", err)
			return nil
		}
	}
	repo, err := customrepo.NewSQLiteRepository(cfg.Path)
	if err != nil {
		logger.Error("failed to open sqlite repository, using memory repository", "error", err)
		return nil
	}
	logger.Info("custom activity sqlite repository enabled", "path", cfg.Path)
	return repo
}
