package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_USERNAME", "octocat")
	t.Setenv("GEMINI_API_KEY", "AIza-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAGEFORGE_PROVIDER", "")
	t.Setenv("PAGEFORGE_MODEL", "")
	t.Setenv("PAGEFORGE_PORT", "")

	cfg := Load()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Model)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultGenerateTimeout, cfg.GenerateTimeout)
	assert.Equal(t, DefaultGitTimeout, cfg.GitTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOllamaDefaultModel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAGEFORGE_PROVIDER", "ollama")
	t.Setenv("PAGEFORGE_MODEL", "")

	cfg := Load()
	assert.Equal(t, DefaultOllamaModel, cfg.Model)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAGEFORGE_PORT", "8080")
	t.Setenv("PAGEFORGE_GENERATE_TIMEOUT", "45s")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.GenerateTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:     "missing secret",
			mutate:   func(c *Config) { c.WebhookSecret = "" },
			errorMsg: "WEBHOOK_SECRET",
		},
		{
			name:     "missing token",
			mutate:   func(c *Config) { c.GitHubToken = "" },
			errorMsg: "GITHUB_TOKEN",
		},
		{
			name:     "missing username",
			mutate:   func(c *Config) { c.GitHubUsername = "" },
			errorMsg: "GITHUB_USERNAME",
		},
		{
			name:     "missing gemini key",
			mutate:   func(c *Config) { c.GeminiAPIKey = "" },
			errorMsg: "GEMINI_API_KEY",
		},
		{
			name:     "unknown provider",
			mutate:   func(c *Config) { c.Provider = "claude" },
			errorMsg: "unknown provider",
		},
		{
			name:     "bad port",
			mutate:   func(c *Config) { c.Port = -1 },
			errorMsg: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				WebhookSecret:  "s",
				GitHubToken:    "t",
				GitHubUsername: "u",
				GeminiAPIKey:   "k",
				Provider:       "gemini",
				Port:           5000,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := &Config{
		WebhookSecret:  "s",
		GitHubToken:    "t",
		GitHubUsername: "u",
		Provider:       "ollama",
		Port:           5000,
	}
	assert.NoError(t, cfg.Validate())
}
