package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"petchat/backend/features/chat"
	"petchat/backend/internal/config"
	"petchat/backend/internal/middleware"
	"petchat/backend/internal/ratelimit"
	"petchat/backend/internal/safety"
)

const Version = "1.0.0"

type App struct {
	Handler     http.Handler
	ChatService *chat.Service

	port int
}

// New wires the request-path object graph: safety gate, prompt builder, RAG
// service, rate limiter, and routes. Backends come in as interfaces so tests
// can swap them for stubs.
func New(cfg *config.Config, embedder chat.Embedder, retriever chat.Retriever, generator chat.Generator) *App {
	service := chat.NewService(
		safety.NewDefaultGate(),
		embedder, retriever, generator,
		chat.NewPromptBuilder(chat.DefaultPromptConfig),
		cfg.RetrievalTopK, cfg.Temperature,
	)
	handler := chat.NewHandler(service)
	limiter := ratelimit.NewLimiter(cfg.RateLimitMax, cfg.RateLimitWindow())

	mux := http.NewServeMux()
	mux.Handle("POST /chat", middleware.CorrelationID(middleware.RateLimit(limiter, http.HandlerFunc(handler.Chat))))
	mux.Handle("GET /health", healthHandler(cfg))

	return &App{Handler: mux, ChatService: service, port: cfg.ServerPort}
}

// healthHandler reports liveness plus enough configuration detail to debug a
// broken deployment without leaking credentials.
func healthHandler(cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"ok":                   true,
			"version":              Version,
			"chat_model":           cfg.ChatModel,
			"embed_model":          cfg.EmbedModel,
			"store_host_set":       cfg.DBHost != "",
			"store_credential_set": cfg.DBPass != "",
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode health response", "error", err)
		}
	})
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
