package SummarizeConversations

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type chatCompletionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIBackend talks to any OpenAI compatible chat completions endpoint,
// self hosted models included.
type OpenAIBackend struct {
	completions chatCompletionService
	model       string
}

func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if apiKey == "" && baseURL == "" {
		return nil, errors.New("openai API key or base URL is required")
	}

	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{completions: &client.Chat.Completions, model: model}, nil
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	completion, completionError := b.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if completionError != nil {
		return "", completionError
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
