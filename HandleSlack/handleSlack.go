package HandleSlack

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"chat-summariser/Models"
	"chat-summariser/Repo"
	"chat-summariser/ResolveFilter"
	"chat-summariser/SummarizeConversations"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"
)

// a summary with every add-on on is a handful of completions in a row
const defaultRunTimeout = 5 * time.Minute

type Summarizer interface {
	GenerateSummary(ctx context.Context, request SummarizeConversations.Request) error
}

// ViewApi opens and updates the summarize modal.
type ViewApi interface {
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	UpdateViewContext(ctx context.Context, view slack.ModalViewRequest, externalID, hash, viewID string) (*slack.ViewResponse, error)
}

type Dependencies struct {
	SigningSecret string
	Summarizer    Summarizer
	Resolver      *ResolveFilter.Resolver
	Members       MemberLister
	Views         ViewApi
	Store         Repo.PendingStore
	// Dispatch runs the summary after slack has been answered. Defaults to a
	// new goroutine.
	Dispatch   func(run func())
	RunTimeout time.Duration
}

type Handler struct {
	signingSecret string
	summarizer    Summarizer
	resolver      *ResolveFilter.Resolver
	members       MemberLister
	views         ViewApi
	store         Repo.PendingStore
	dispatch      func(run func())
	runTimeout    time.Duration
}

func NewHandler(deps Dependencies) *Handler {
	handler := &Handler{
		signingSecret: deps.SigningSecret,
		summarizer:    deps.Summarizer,
		resolver:      deps.Resolver,
		members:       deps.Members,
		views:         deps.Views,
		store:         deps.Store,
		dispatch:      deps.Dispatch,
		runTimeout:    deps.RunTimeout,
	}
	if handler.dispatch == nil {
		handler.dispatch = func(run func()) { go run() }
	}
	if handler.runTimeout <= 0 {
		handler.runTimeout = defaultRunTimeout
	}
	return handler
}

// RegisterRoutes registers the slack endpoints and the health check.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Handle("/slack/commands", h.verified(http.HandlerFunc(h.handleCommand))).Methods(http.MethodPost)
	r.Handle("/slack/interactions", h.verified(http.HandlerFunc(h.handleInteraction))).Methods(http.MethodPost)

	// the keep-alive pings the deployment root
	r.HandleFunc("/", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("Service running"))
}

// verified rejects requests that are not signed with the app's signing secret.
func (h *Handler) verified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, readError := io.ReadAll(r.Body)
		if readError != nil {
			http.Error(w, "could not read body", http.StatusBadRequest)
			return
		}

		secretsVerifier, verifierError := slack.NewSecretsVerifier(r.Header, h.signingSecret)
		if verifierError != nil {
			slog.Warn("HandleSlack:verified#Rejected request without a valid signature header", "path", r.URL.Path, "error", verifierError)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		if _, writeError := secretsVerifier.Write(body); writeError != nil {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		if ensureError := secretsVerifier.Ensure(); ensureError != nil {
			slog.Warn("HandleSlack:verified#Rejected request with a wrong signature", "path", r.URL.Path)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// run hands the pipeline to the dispatcher on a context that outlives the
// slack request.
func (h *Handler) run(name string, job func(ctx context.Context) error) {
	h.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()

		if jobError := job(ctx); jobError != nil {
			slog.Error("HandleSlack:run#Error while generating the summary", "invocation", name, "error", jobError)
		}
	})
}

func (h *Handler) summarize(ctx context.Context, room Models.Room, user Models.User, threadID string, filter Models.Filter) error {
	return h.summarizer.GenerateSummary(ctx, SummarizeConversations.Request{
		Room:     room,
		User:     user,
		ThreadID: threadID,
		Filter:   filter,
	})
}
