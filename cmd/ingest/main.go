package main

import (
	"context"
	"log/slog"
	"os"

	"petchat/backend/features/ingest"
	"petchat/backend/internal/adapter/ollama"
	"petchat/backend/internal/app"
	"petchat/backend/internal/config"
	"petchat/backend/internal/logger"
)

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.StoreConfigured() {
		slog.Error("corpus store not configured, set DB_HOST")
		os.Exit(1)
	}

	ctx := context.Background()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	client := ollama.NewClient(ollama.Options{
		BaseURL:    cfg.OllamaBase,
		ChatModel:  cfg.ChatModel,
		EmbedModel: cfg.EmbedModel,
		Timeout:    cfg.UpstreamTimeout(),
		Retry:      cfg.UpstreamRetry,
	})

	svc := ingest.NewService(ingest.NewExtractor(), client, deps.Store)
	summary, err := svc.Run(ctx, cfg.DocsDir)
	if err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
	if summary.Succeeded < summary.Files {
		slog.Warn("some files failed", "files", summary.Files, "succeeded", summary.Succeeded)
		os.Exit(1)
	}
}
