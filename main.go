package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-summariser/BuildTranscript"
	"chat-summariser/Config"
	"chat-summariser/GetMessages"
	"chat-summariser/HandleSlack"
	"chat-summariser/KeepAlive"
	"chat-summariser/Metrics"
	"chat-summariser/PublishToSlack"
	"chat-summariser/Repo"
	"chat-summariser/ResolveFilter"
	"chat-summariser/SlackReader"
	"chat-summariser/SummarizeConversations"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
)

func newCompletionBackend(ctx context.Context, config *Config.Config) (SummarizeConversations.Backend, error) {
	switch config.CompletionProvider {
	case Config.ProviderOpenAI:
		return SummarizeConversations.NewOpenAIBackend(config.OpenAIApiKey, config.OpenAIBaseURL, config.CompletionModel)
	case Config.ProviderGemini:
		return SummarizeConversations.NewGeminiBackend(ctx, config.GeminiApiKey, config.CompletionModel)
	}
	return nil, fmt.Errorf("unknown completion provider %q", config.CompletionProvider)
}

func openPendingStore(ctx context.Context, config *Config.Config) (Repo.PendingStore, error) {
	var store Repo.PendingStore
	switch config.StoreDriver {
	case Config.StorePostgres:
		dbPool, dbInitialisationError := Repo.InitDbPool(ctx, config.DatabaseUrl)
		if dbInitialisationError != nil {
			return nil, dbInitialisationError
		}
		store = Repo.NewPostgresStore(dbPool)
	case Config.StoreSqlite:
		sqliteStore, openError := Repo.OpenSqliteStore(ctx, config.SqlitePath)
		if openError != nil {
			return nil, openError
		}
		store = sqliteStore
	default:
		return nil, fmt.Errorf("unknown store driver %q", config.StoreDriver)
	}

	if ensureSchemaError := store.EnsureSchema(ctx); ensureSchemaError != nil {
		_ = store.Close()
		return nil, ensureSchemaError
	}
	return store, nil
}

func main() {
	config, configError := Config.Load()
	if configError != nil {
		log.Fatal("Failed to load configuration:", configError)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slackBotApi := slack.New(config.SlackBotToken)
	// unread counts are only visible to a user token
	var slackUserApi SlackReader.UserApi
	if config.SlackUserToken != "" {
		slackUserApi = slack.New(config.SlackUserToken)
	}

	backend, backendError := newCompletionBackend(ctx, config)
	if backendError != nil {
		log.Fatal("Failed to initialise the completion backend:", backendError)
	}

	store, storeError := openPendingStore(ctx, config)
	if storeError != nil {
		log.Fatal("Failed to initialise DB:", storeError)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := Metrics.NewProvider(registry)

	reader, readerError := SlackReader.NewReader(slackBotApi, slackUserApi, nil)
	if readerError != nil {
		log.Fatal("Failed to initialise the slack reader:", readerError)
	}
	notifier := PublishToSlack.NewNotifier(slackBotApi)
	gateway := SummarizeConversations.NewGateway(backend, metrics)

	summarizer := SummarizeConversations.NewSummarizer(
		GetMessages.NewFetcher(reader),
		BuildTranscript.NewAssembler(gateway, notifier, reader),
		gateway,
		notifier,
		Config.EnvSettings{},
		metrics,
	)

	handler := HandleSlack.NewHandler(HandleSlack.Dependencies{
		SigningSecret: config.SlackSigningSecret,
		Summarizer:    summarizer,
		Resolver:      ResolveFilter.NewResolver(reader),
		Members:       reader,
		Views:         slackBotApi,
		Store:         store,
	})

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if config.DeploymentBaseURI != "" {
		keepAliveCron, keepAliveError := KeepAlive.Start(config.KeepAliveSchedule, config.DeploymentBaseURI, nil)
		if keepAliveError != nil {
			log.Fatal("Failed to schedule the health check:", keepAliveError)
		}
		defer keepAliveCron.Stop()
	}

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if shutdownError := server.Shutdown(shutdownCtx); shutdownError != nil {
			slog.Error("main#Error while shutting down the server", "error", shutdownError)
		}
	}()

	slog.Info("main#Listening", "port", config.Port, "provider", config.CompletionProvider, "store", config.StoreDriver)
	if serveError := server.ListenAndServe(); serveError != nil && !errors.Is(serveError, http.ErrServerClosed) {
		slog.Error("main#Server stopped", "error", serveError)
		os.Exit(1)
	}
}
