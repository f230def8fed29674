package SummarizeConversations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-summariser/Metrics"
	"chat-summariser/Models"
)

// Backend is a text completion service: one prompt in, one text out.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway sends exactly one request per call to the backend. Failures are
// returned to the caller as they are, nothing is retried.
type Gateway struct {
	backend Backend
	metrics *Metrics.Provider
}

func NewGateway(backend Backend, metrics *Metrics.Provider) *Gateway {
	return &Gateway{backend: backend, metrics: metrics}
}

func (g *Gateway) Complete(ctx context.Context, request Models.CompletionRequest) (string, error) {
	start := time.Now()
	text, generateError := g.backend.Generate(ctx, request.Prompt)
	g.metrics.ObserveCompletion(request.Task, time.Since(start), generateError)

	if generateError != nil {
		slog.Error("SummarizeConversations:Complete#Error getting completion",
			"task", request.Task, "roomId", request.Room.ID, "userId", request.User.ID, "threadId", request.ThreadID, "error", generateError)
		return "", fmt.Errorf("complete %s: %w", request.Task, generateError)
	}
	return strings.TrimSpace(text), nil
}
