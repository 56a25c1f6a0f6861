package llmservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"resume-chat/internal/config"
)

type stubModel struct {
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.messages = messages
	for _, opt := range options {
		opt(&s.opts)
	}
	return s.resp, s.err
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

var _ llms.Model = (*stubModel)(nil)

func TestGenerate(t *testing.T) {
	model := &stubModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "answer"}}}}
	c := NewClientWithModel(model, 0.1)

	got, err := c.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "answer", got)
	assert.InDelta(t, 0.1, model.opts.Temperature, 1e-9)

	require.Len(t, model.messages, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[0].Role)
	require.Len(t, model.messages[0].Parts, 1)
	assert.Equal(t, llms.TextContent{Text: "prompt text"}, model.messages[0].Parts[0])
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewClientWithModel(&stubModel{err: errors.New("boom")}, 0).Generate(context.Background(), "p")
	assert.Error(t, err)

	_, err = NewClientWithModel(&stubModel{resp: &llms.ContentResponse{}}, 0).Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestNewClientProviders(t *testing.T) {
	_, err := NewClient(&config.LLMConfig{Provider: config.ProviderOpenAI, Key: "sk-test", Model: "gpt-3.5-turbo"})
	require.NoError(t, err)

	_, err = NewClient(&config.LLMConfig{Provider: config.ProviderOllama, Model: "llama3"})
	require.NoError(t, err)

	_, err = NewClient(&config.LLMConfig{Provider: "bard"})
	assert.Error(t, err)
}
