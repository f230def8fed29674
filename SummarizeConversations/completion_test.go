package SummarizeConversations

import (
	"context"
	"errors"
	"testing"

	"chat-summariser/Metrics"
	"chat-summariser/Models"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeBackend struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestGateway_Complete(t *testing.T) {
	backend := &fakeBackend{reply: "  a summary\n"}
	gateway := NewGateway(backend, Metrics.NewProvider(prometheus.NewRegistry()))

	text, err := gateway.Complete(context.Background(), Models.CompletionRequest{Task: "summary", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "a summary", text)
	assert.Equal(t, []string{"p"}, backend.prompts)
}

func TestGateway_CompleteError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("503")}
	gateway := NewGateway(backend, nil)

	_, err := gateway.Complete(context.Background(), Models.CompletionRequest{Task: "assigned-tasks", Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, "complete assigned-tasks: 503", err.Error())
	assert.Len(t, backend.prompts, 1)
}

type fakeGenerator struct {
	model    string
	response *genai.GenerateContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	return f.response, f.err
}

func TestGeminiBackend_Generate(t *testing.T) {
	generator := &fakeGenerator{response: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello "}, {Text: "world"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "ignored"}}}},
		},
	}}
	backend := &GeminiBackend{models: generator, model: DefaultGeminiModel}

	text, err := backend.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, DefaultGeminiModel, generator.model)
}

func TestGeminiBackend_NoCandidates(t *testing.T) {
	backend := &GeminiBackend{models: &fakeGenerator{response: &genai.GenerateContentResponse{}}}

	_, err := backend.Generate(context.Background(), "prompt")
	require.Error(t, err)
}

type fakeChatCompletions struct {
	params     openai.ChatCompletionNewParams
	completion *openai.ChatCompletion
	err        error
}

func (f *fakeChatCompletions) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.params = body
	return f.completion, f.err
}

func TestOpenAIBackend_Generate(t *testing.T) {
	completions := &fakeChatCompletions{completion: &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "summary text"}},
		},
	}}
	backend := &OpenAIBackend{completions: completions, model: "llama-3"}

	text, err := backend.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "summary text", text)
	assert.Equal(t, "llama-3", string(completions.params.Model))
	assert.Len(t, completions.params.Messages, 1)
}

func TestOpenAIBackend_NoChoices(t *testing.T) {
	backend := &OpenAIBackend{completions: &fakeChatCompletions{completion: &openai.ChatCompletion{}}}

	_, err := backend.Generate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestNewOpenAIBackend(t *testing.T) {
	_, err := NewOpenAIBackend("", "", "")
	require.Error(t, err)

	backend, err := NewOpenAIBackend("", "http://localhost:8000/v1", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, backend.model)
}
