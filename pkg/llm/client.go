// Package llm provides the text-generation clients used by the code
// generator. Two backends are supported: the Gemini REST API (default) and a
// local Ollama server for offline operation.
package llm

import (
	"context"
	"fmt"

	"github.com/alantheprice/pageforge/pkg/config"
)

// Client produces a full text completion for a single prompt. The call is
// blocking and fallible; callers bound it with the context deadline.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// New selects the client for the configured provider.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model), nil
	case "ollama":
		return NewOllamaClient(cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
