package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
suggestions:
  maxSuggestions: 4
session:
  tokenSecret: from-file
  idleTtl: 30m
customStore:
  driver: sqlite
  sqlite:
    path: /tmp/custom.db
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SESSION_TOKEN_SECRET", "from-env")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 4, cfg.Suggestions.MaxSuggestions)
	require.Equal(t, 3, cfg.Suggestions.MinSuggestions)
	require.Equal(t, "from-env", cfg.Session.TokenSecret)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	require.Equal(t, DriverSQLite, cfg.CustomStore.Driver)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Session.TokenSecret = "secret"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"missing secret":      func(c *Config) { c.Session.TokenSecret = "" },
		"max below min":       func(c *Config) { c.Suggestions.MaxSuggestions = 2 },
		"unknown driver":      func(c *Config) { c.CustomStore.Driver = "mongo" },
		"valkey without addr": func(c *Config) { c.CustomStore.Driver = DriverValkey },
		"postgres no dsn":     func(c *Config) { c.CustomStore.Driver = DriverPostgres },
		"latitude range":      func(c *Config) { c.Sun.FallbackLatitude = 91 },
		"rate limit burst":    func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
