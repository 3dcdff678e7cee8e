package ingest

import (
	"context"
	"fmt"
	"log/slog"
)

// Backfill embeds chunks that were stored without an embedding, e.g. after a
// partial ingestion run or a manual corpus import.
type Backfill struct {
	embedder Embedder
	store    BackfillStore
}

func NewBackfill(embedder Embedder, store BackfillStore) *Backfill {
	return &Backfill{embedder: embedder, store: store}
}

// Run reports how many chunks were pending and how many got an embedding.
// Per-chunk failures are logged and skipped so one bad chunk cannot stall
// the rest.
func (b *Backfill) Run(ctx context.Context) (pending, updated int, err error) {
	if err := b.store.Ping(ctx); err != nil {
		return 0, 0, fmt.Errorf("corpus store unreachable: %w", err)
	}
	if err := b.embedder.Ping(ctx); err != nil {
		return 0, 0, fmt.Errorf("inference service unreachable: %w", err)
	}

	chunks, err := b.store.ChunksMissingEmbedding(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(chunks) == 0 {
		slog.Info("no chunks pending backfill")
		return 0, 0, nil
	}

	for i, chunk := range chunks {
		embedding, err := b.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			slog.Warn("failed to embed chunk", "chunk_id", chunk.ID, "error", err)
			continue
		}
		if i == 0 {
			slog.Info("embedding dimension", "dim", len(embedding))
		}

		if err := b.store.UpdateChunkEmbedding(ctx, chunk.ID, embedding); err != nil {
			slog.Warn("failed to update chunk", "chunk_id", chunk.ID, "error", err)
			continue
		}
		updated++
	}

	slog.Info("backfill complete", "pending", len(chunks), "updated", updated)
	return len(chunks), updated, nil
}
