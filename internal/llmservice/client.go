package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"resume-chat/internal/config"
)

// Client generates answers with one configured chat model.
type Client struct {
	model       llms.Model
	temperature float64
}

func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Float64("temperature", llmConfig.Temperature).Msg("Creating llm client")

	var model llms.Model
	switch llmConfig.Provider {
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		model = llm
	case config.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		model = llm
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", llmConfig.Provider)
	}
	return NewClientWithModel(model, llmConfig.Temperature), nil
}

// NewClientWithModel wraps an existing langchaingo model.
func NewClientWithModel(model llms.Model, temperature float64) *Client {
	return &Client{model: model, temperature: temperature}
}

// Generate sends prompt as a single human message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	msgContent := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	res, err := c.model.GenerateContent(ctx, msgContent, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return res.Choices[0].Content, nil
}
