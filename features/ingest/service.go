package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"petchat/backend/internal/text"
)

// Service runs the offline ingestion pipeline: discover files, extract text,
// chunk, embed, store. Files are processed strictly one at a time; a bad file
// or a bad chunk is logged and skipped, never fatal to the batch.
type Service struct {
	extractor *Extractor
	embedder  Embedder
	store     Store
}

func NewService(extractor *Extractor, embedder Embedder, store Store) *Service {
	return &Service{extractor: extractor, embedder: embedder, store: store}
}

func (s *Service) Run(ctx context.Context, dir string) (*Summary, error) {
	files, err := discover(dir)
	if err != nil {
		return nil, err
	}

	// Preconditions are checked up front so a misconfigured environment
	// fails before any document row is written.
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("corpus store unreachable: %w", err)
	}
	if err := s.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("inference service unreachable: %w", err)
	}

	caps, err := s.store.ResolveCapabilities(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("starting ingestion", "dir", dir, "files", len(files), "chunk_index_supported", caps.HasChunkIndex)

	summary := &Summary{Files: len(files)}
	for _, path := range files {
		report := s.ingestFile(ctx, path)
		summary.Reports = append(summary.Reports, report)
		if report.Err == nil {
			summary.Succeeded++
		}
	}

	slog.Info("ingestion complete", "files", summary.Files, "succeeded", summary.Succeeded)
	return summary, nil
}

func (s *Service) ingestFile(ctx context.Context, path string) FileReport {
	report := FileReport{File: path}

	raw, err := s.extractor.Extract(path)
	if err != nil {
		slog.Warn("skipping file", "file", path, "error", err)
		report.Err = err
		return report
	}

	chunks := text.Chunk(raw)
	report.Chunks = len(chunks)

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	docID, err := s.store.InsertDocument(ctx, title, path)
	if err != nil {
		slog.Error("failed to insert document", "file", path, "error", err)
		report.Err = err
		return report
	}

	if len(chunks) == 0 {
		slog.Info("no chunks produced", "file", path, "document_id", docID)
		return report
	}

	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			slog.Warn("failed to embed chunk", "file", path, "chunk", i, "error", err)
			continue
		}
		if i == 0 {
			slog.Info("embedding dimension", "file", path, "dim", len(embedding))
		}

		idx := i
		if _, err := s.store.InsertChunk(ctx, docID, chunk, embedding, &idx); err != nil {
			slog.Warn("failed to store chunk", "file", path, "chunk", i, "error", err)
			continue
		}
		report.Stored++
	}

	slog.Info("ingested file", "file", path, "document_id", docID, "chunks", report.Chunks, "stored", report.Stored)
	return report
}

// discover lists ingestible files in dir, sorted by name. An absent directory
// or one with nothing to ingest is an operator mistake and fails the run.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".pdf":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt or .pdf files found in %s", dir)
	}
	return files, nil
}
