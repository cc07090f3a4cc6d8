// Package llm wraps the generation service behind a two-message Generate
// call. Any OpenAI-compatible chat endpoint works, including a local Ollama
// server's /v1 API.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	BaseURL     string
	ApiKey      string
	Model       string
	Temperature float64
}

type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	var opts []option.RequestOption
	if cfg.ApiKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.ApiKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Generate sends the instruction and request as a system/user message pair
// and returns the model's text. One attempt, no retries.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Temperature: openai.Float(g.temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
