package llm

import (
	"context"
	"fmt"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient generates text through a local Ollama server. The server
// address comes from OLLAMA_HOST, matching the ollama CLI.
type OllamaClient struct {
	client *ollama.Client
	model  string
}

// NewOllamaClient builds a client against the environment-configured host.
func NewOllamaClient(model string) (*OllamaClient, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return &OllamaClient{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string { return c.model }

// Generate submits the prompt as a single-turn chat and collects the full
// response.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model: c.model,
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.2,
			"top_p":       0.9,
		},
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		sb.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no content in ollama response")
	}
	return text, nil
}
