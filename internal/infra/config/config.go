package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	LLM         LLMConfig         `yaml:"llm"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Weather     WeatherConfig     `yaml:"weather"`
	Sun         SunConfig         `yaml:"sun"`
	Session     SessionConfig     `yaml:"session"`
	CustomStore CustomStoreConfig `yaml:"customStore"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SuggestionsConfig tunes the generated activity batches.
type SuggestionsConfig struct {
	Prompt                string `yaml:"prompt"`
	MinSuggestions        int    `yaml:"minSuggestions"`
	MaxSuggestions        int    `yaml:"maxSuggestions"`
	LongActivityThreshold int    `yaml:"longActivityThreshold"`
	LongActivityMinimum   int    `yaml:"longActivityMinimum"`
}

// WeatherConfig points at the forecast provider.
type WeatherConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// SunConfig points at the sunrise/sunset provider.
type SunConfig struct {
	BaseURL           string        `yaml:"baseUrl"`
	Timeout           time.Duration `yaml:"timeout"`
	FallbackLatitude  float64       `yaml:"fallbackLatitude"`
	FallbackLongitude float64       `yaml:"fallbackLongitude"`
}

// SessionConfig controls session tokens and lifetimes.
type SessionConfig struct {
	TokenSecret       string        `yaml:"tokenSecret"`
	TokenTTL          time.Duration `yaml:"tokenTtl"`
	IdleTTL           time.Duration `yaml:"idleTtl"`
	JanitorInterval   time.Duration `yaml:"janitorInterval"`
	CountdownInterval time.Duration `yaml:"countdownInterval"`
	FetchTimeout      time.Duration `yaml:"fetchTimeout"`
	EventBuffer       int           `yaml:"eventBuffer"`
}

// CustomStoreConfig selects the persistence backend for custom activities.
type CustomStoreConfig struct {
	Driver   string         `yaml:"driver"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// ValkeyConfig contains connection information for key-value storage.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig points at a local database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Supported custom store drivers.
const (
	DriverMemory   = "memory"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setString(&cfg.Suggestions.Prompt, "SUGGESTIONS_PROMPT")
	setInt(&cfg.Suggestions.MinSuggestions, "SUGGESTIONS_MIN")
	setInt(&cfg.Suggestions.MaxSuggestions, "SUGGESTIONS_MAX")

	setString(&cfg.Weather.BaseURL, "WEATHER_BASE_URL")
	setDuration(&cfg.Weather.Timeout, "WEATHER_TIMEOUT")
	setString(&cfg.Sun.BaseURL, "SUN_BASE_URL")
	setDuration(&cfg.Sun.Timeout, "SUN_TIMEOUT")
	setFloat(&cfg.Sun.FallbackLatitude, "SUN_FALLBACK_LATITUDE")
	setFloat(&cfg.Sun.FallbackLongitude, "SUN_FALLBACK_LONGITUDE")

	setString(&cfg.Session.TokenSecret, "SESSION_TOKEN_SECRET")
	setDuration(&cfg.Session.TokenTTL, "SESSION_TOKEN_TTL")
	setDuration(&cfg.Session.IdleTTL, "SESSION_IDLE_TTL")
	setDuration(&cfg.Session.CountdownInterval, "SESSION_COUNTDOWN_INTERVAL")

	setString(&cfg.CustomStore.Driver, "CUSTOM_STORE_DRIVER")
	setString(&cfg.CustomStore.Valkey.Addr, "CUSTOM_STORE_VALKEY_ADDR")
	setString(&cfg.CustomStore.Postgres.DSN, "CUSTOM_STORE_POSTGRES_DSN")
	if v := os.Getenv("CUSTOM_STORE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.CustomStore.Postgres.MaxConns = int32(parsed)
		}
	}
	setString(&cfg.CustomStore.SQLite.Path, "CUSTOM_STORE_SQLITE_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/sessions/current/events",
					"/api/v1/sessions/current/suggestions",
				},
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Suggestions: SuggestionsConfig{
			Prompt:                "You are a helpful assistant that suggests short activities a person can do with the free time they have right now.",
			MinSuggestions:        3,
			MaxSuggestions:        5,
			LongActivityThreshold: 120,
			LongActivityMinimum:   60,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.open-meteo.com/v1",
			Timeout: 10 * time.Second,
		},
		Sun: SunConfig{
			BaseURL:           "https://api.sunrise-sunset.org",
			Timeout:           10 * time.Second,
			FallbackLatitude:  37.422,
			FallbackLongitude: -122.084,
		},
		Session: SessionConfig{
			TokenTTL:          24 * time.Hour,
			IdleTTL:           2 * time.Hour,
			JanitorInterval:   time.Minute,
			CountdownInterval: time.Minute,
			FetchTimeout:      20 * time.Second,
			EventBuffer:       16,
		},
		CustomStore: CustomStoreConfig{
			Driver: DriverMemory,
			Valkey: ValkeyConfig{
				Prefix: "custom-activities",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLite: SQLiteConfig{
				Path: "data/custom-activities.db",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Suggestions.MinSuggestions <= 0 {
		return errors.New("suggestions.minSuggestions must be positive")
	}
	if c.Suggestions.MaxSuggestions < c.Suggestions.MinSuggestions {
		return errors.New("suggestions.maxSuggestions cannot be below minSuggestions")
	}
	if c.Suggestions.LongActivityMinimum < 0 || c.Suggestions.LongActivityThreshold < 0 {
		return errors.New("suggestions long activity settings cannot be negative")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Sun.BaseURL) == "" {
		return errors.New("sun.baseUrl cannot be empty")
	}
	if c.Sun.FallbackLatitude < -90 || c.Sun.FallbackLatitude > 90 {
		return errors.New("sun.fallbackLatitude must be within [-90, 90]")
	}
	if c.Sun.FallbackLongitude < -180 || c.Sun.FallbackLongitude > 180 {
		return errors.New("sun.fallbackLongitude must be within [-180, 180]")
	}
	if strings.TrimSpace(c.Session.TokenSecret) == "" {
		return errors.New("session.tokenSecret cannot be empty")
	}
	if c.Session.TokenTTL <= 0 {
		return errors.New("session.tokenTtl must be positive")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idleTtl must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.CustomStore.Driver)) {
	case DriverMemory:
	case DriverValkey:
		if strings.TrimSpace(c.CustomStore.Valkey.Addr) == "" {
			return errors.New("customStore.valkey.addr cannot be empty when driver is valkey")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.CustomStore.Postgres.DSN) == "" {
			return errors.New("customStore.postgres.dsn cannot be empty when driver is postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.CustomStore.SQLite.Path) == "" {
			return errors.New("customStore.sqlite.path cannot be empty when driver is sqlite")
		}
	default:
		return fmt.Errorf("customStore.driver %q is not supported", c.CustomStore.Driver)
	}
	return nil
}
