// Package config builds the immutable process configuration from environment
// variables at startup. The resulting Config is passed explicitly into the
// components that need credentials; nothing reads the environment after Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values applied when the corresponding environment variable is unset.
const (
	DefaultPort            = 5000
	DefaultProvider        = "gemini"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultOllamaModel     = "qwen2.5-coder"
	DefaultGenerateTimeout = 120 * time.Second
	DefaultGitTimeout      = 30 * time.Second
	DefaultHTTPTimeout     = 10 * time.Second
)

// Config holds all credentials and tunables for one server process.
type Config struct {
	// Required credentials.
	WebhookSecret  string
	GitHubToken    string
	GitHubUsername string
	GeminiAPIKey   string

	// Model provider selection: "gemini" or "ollama".
	Provider string
	Model    string

	Port int

	// VerifyPages polls the published site URL after each publish.
	VerifyPages bool

	// Timeouts for the three blocking external calls.
	GenerateTimeout time.Duration
	GitTimeout      time.Duration
	HTTPTimeout     time.Duration
}

// Load reads the configuration from the environment and applies defaults.
// It does not validate; call Validate before using the result.
func Load() *Config {
	cfg := &Config{
		WebhookSecret:   os.Getenv("WEBHOOK_SECRET"),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GitHubUsername:  os.Getenv("GITHUB_USERNAME"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		Provider:        envOrDefault("PAGEFORGE_PROVIDER", DefaultProvider),
		Model:           os.Getenv("PAGEFORGE_MODEL"),
		Port:            envIntOrDefault("PAGEFORGE_PORT", DefaultPort),
		VerifyPages:     os.Getenv("PAGEFORGE_VERIFY_PAGES") == "1",
		GenerateTimeout: envDurationOrDefault("PAGEFORGE_GENERATE_TIMEOUT", DefaultGenerateTimeout),
		GitTimeout:      envDurationOrDefault("PAGEFORGE_GIT_TIMEOUT", DefaultGitTimeout),
		HTTPTimeout:     envDurationOrDefault("PAGEFORGE_HTTP_TIMEOUT", DefaultHTTPTimeout),
	}
	if cfg.Model == "" {
		if cfg.Provider == "ollama" {
			cfg.Model = DefaultOllamaModel
		} else {
			cfg.Model = DefaultGeminiModel
		}
	}
	return cfg
}

// Validate checks that every required credential is present. Missing values are
// fatal at startup; the server never runs with a partial credential set.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is not set")
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set")
	}
	if c.GitHubUsername == "" {
		return fmt.Errorf("GITHUB_USERNAME is not set")
	}
	switch c.Provider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
	case "ollama":
		// The ollama client reads its host from OLLAMA_HOST; no key required.
	default:
		return fmt.Errorf("unknown provider %q (expected \"gemini\" or \"ollama\")", c.Provider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
