package SummarizeConversations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-3-pro-preview"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiBackend struct {
	models contentGenerator
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	genAiClient, genAiError := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if genAiError != nil {
		return nil, fmt.Errorf("create genai client: %w", genAiError)
	}

	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiBackend{models: genAiClient.Models, model: model}, nil
}

func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	genAiGenerateContentResult, genAiGenerateContentError := b.models.GenerateContent(
		ctx,
		b.model,
		genai.Text(prompt),
		nil,
	)
	if genAiGenerateContentError != nil {
		return "", genAiGenerateContentError
	}

	if len(genAiGenerateContentResult.Candidates) == 0 || genAiGenerateContentResult.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	// only the first candidate is used, its parts are concatenated
	var text strings.Builder
	for _, part := range genAiGenerateContentResult.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		text.WriteString(part.Text)
	}
	return text.String(), nil
}
