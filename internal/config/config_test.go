package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/matcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, "app:\n  logLevel: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxFileSize)
	assert.Equal(t, 100000, cfg.Engine.MaxInputChars)
	assert.Equal(t, 4, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 5000, cfg.Engine.Similarity.MaxFeatures)
	assert.Equal(t, 2, cfg.Engine.Similarity.NgramMax)
	assert.InDelta(t, 0.95, cfg.Engine.Similarity.MaxDF, 1e-9)
	assert.False(t, cfg.Entity.Enabled)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.Equal(t, time.Second, cfg.Server.TLS.AutoReload.FileWatcher.DebounceDelay)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	t.Setenv("RESUMEMATCH_SERVER_PORT", "9191")
	t.Setenv("RESUMEMATCH_ENTITY_ENABLED", "true")
	t.Setenv("RESUMEMATCH_ENTITY_APIKEY", "test-key")

	cfg, err := LoadConfigFile(writeConfig(t, `
engine:
  batchConcurrency: 8
  similarity:
    maxFeatures: 200
    ngramMax: 1
server:
  apiKeys: ["alpha", "beta"]
`))
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.True(t, cfg.Entity.Enabled)
	assert.Equal(t, "test-key", cfg.Entity.APIKey)
	assert.Equal(t, 8, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 200, cfg.Engine.Similarity.MaxFeatures)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
}

func TestLoadConfigFileRejectsEntityWithoutKey(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "entity:\n  enabled: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity API key is required")
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxInputChars:       1000,
			BatchConcurrency:    2,
			RecommendationLimit: 5,
			Similarity:          SimilarityConfig{MaxFeatures: 100, NgramMax: 2, MinDF: 1, MaxDF: 0.95},
		},
		Server: ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text"},
			MaxFileSize:      1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero max features", func(c *Config) { c.Engine.Similarity.MaxFeatures = 0 }, "maxFeatures must be positive"},
		{"ngram too large", func(c *Config) { c.Engine.Similarity.NgramMax = 4 }, "ngramMax must be between 1 and 3"},
		{"min df zero", func(c *Config) { c.Engine.Similarity.MinDF = 0 }, "minDF must be at least 1"},
		{"max df above one", func(c *Config) { c.Engine.Similarity.MaxDF = 1.5 }, "maxDF must be in (0, 1]"},
		{"max df zero", func(c *Config) { c.Engine.Similarity.MaxDF = 0 }, "maxDF must be in (0, 1]"},
		{"no concurrency", func(c *Config) { c.Engine.BatchConcurrency = 0 }, "batchConcurrency must be positive"},
		{"negative input cap", func(c *Config) { c.Engine.MaxInputChars = -1 }, "maxInputChars must not be negative"},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"unsupported format", func(c *Config) { c.App.DefaultFormat = "xml" }, "invalid default format: xml"},
		{"zero file size", func(c *Config) { c.App.MaxFileSize = 0 }, "maxFileSize must be positive"},
		{
			"entity enabled without key",
			func(c *Config) {
				c.Entity = EntityConfig{Enabled: true, Provider: "gemini", Model: "m", Timeout: time.Second}
			},
			"entity API key is required",
		},
		{
			"entity unknown provider",
			func(c *Config) { c.Entity = EntityConfig{Enabled: true, Provider: "other", APIKey: "k"} },
			"unsupported entity provider",
		},
		{
			"entity bad breaker threshold",
			func(c *Config) {
				c.Entity = EntityConfig{
					Enabled: true, Provider: "gemini", Model: "m", APIKey: "k", Timeout: time.Second,
					CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 2},
				}
			},
			"failureThreshold must be in (0, 1]",
		},
		{"entity disabled ignores key", func(c *Config) { c.Entity = EntityConfig{Provider: "other"} }, ""},
		{"bad tls", func(c *Config) { c.Server.TLS.Mode = "server" }, "TLS configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestMatcherConfig(t *testing.T) {
	got := validConfig().Engine.MatcherConfig()

	want := matcher.DefaultConfig()
	want.Similarity.Vectorizer.MaxFeatures = 100
	want.Similarity.MaxInputChars = 1000
	want.BatchConcurrency = 2
	assert.Equal(t, want, got)
}

func TestApplyServerAPIKeyFallbacks(t *testing.T) {
	t.Setenv("RESUMEMATCH_SERVER_APIKEYS", " one, two ,,three ")

	cfg := &Config{}
	cfg.applyServerAPIKeyFallbacks()
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)

	cfg = &Config{Server: ServerConfig{APIKeys: []string{"kept"}}}
	cfg.applyServerAPIKeyFallbacks()
	assert.Equal(t, []string{"kept"}, cfg.Server.APIKeys)
}

func TestApplyTLSDefaults(t *testing.T) {
	cfg := &Config{Server: ServerConfig{TLS: TLSConfig{Mode: "mutual"}}}
	cfg.applyTLSDefaults()
	assert.Equal(t, "require", cfg.Server.TLS.ClientAuthPolicy)
	assert.Equal(t, "1.2", cfg.Server.TLS.MinVersion)

	cfg = &Config{Server: ServerConfig{TLS: TLSConfig{Mode: "disabled"}}}
	cfg.applyTLSDefaults()
	assert.Empty(t, cfg.Server.TLS.MinVersion)
}
