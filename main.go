package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"petchat/backend/features/chat"
	"petchat/backend/internal/adapter/ollama"
	"petchat/backend/internal/app"
	"petchat/backend/internal/config"
	"petchat/backend/internal/logger"
)

// noStoreRetriever stands in when no corpus store is configured. The server
// still starts so /health can report the misconfiguration; /chat fails per
// request instead.
type noStoreRetriever struct{}

func (noStoreRetriever) MatchChunks(ctx context.Context, vec []float32, k int) ([]chat.RetrievedChunk, error) {
	return nil, errors.New("corpus store not configured")
}

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client := ollama.NewClient(ollama.Options{
		BaseURL:    cfg.OllamaBase,
		ChatModel:  cfg.ChatModel,
		EmbedModel: cfg.EmbedModel,
		Timeout:    cfg.UpstreamTimeout(),
		Retry:      cfg.UpstreamRetry,
	})
	if err := client.Ping(ctx); err != nil {
		slog.Warn("inference service unreachable at startup", "base", cfg.OllamaBase, "error", err)
	}

	var retriever chat.Retriever = noStoreRetriever{}
	if cfg.StoreConfigured() {
		deps, err := app.Bootstrap(ctx, cfg)
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		defer deps.DB.Close()
		retriever = deps.Store
	} else {
		slog.Warn("corpus store not configured, chat will run without retrieval context")
	}

	return app.New(cfg, client, retriever, client).Run(ctx)
}
