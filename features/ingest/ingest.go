package ingest

import "context"

// Capabilities describes optional corpus schema features, resolved once per
// run instead of re-probed per file.
type Capabilities struct {
	HasChunkIndex bool
}

// PendingChunk is a stored chunk with no embedding yet.
type PendingChunk struct {
	ID   int64
	Text string
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Ping(ctx context.Context) error
}

type Store interface {
	Ping(ctx context.Context) error
	ResolveCapabilities(ctx context.Context) (Capabilities, error)
	InsertDocument(ctx context.Context, title, sourcePath string) (int64, error)
	InsertChunk(ctx context.Context, documentID int64, text string, embedding []float32, index *int) (int64, error)
}

type BackfillStore interface {
	Ping(ctx context.Context) error
	ChunksMissingEmbedding(ctx context.Context) ([]PendingChunk, error)
	UpdateChunkEmbedding(ctx context.Context, chunkID int64, embedding []float32) error
}

// FileReport is the per-file outcome of an ingestion run. A usable file that
// produced zero chunks is still a success: the document row exists, there was
// just nothing long enough to index.
type FileReport struct {
	File   string
	Chunks int
	Stored int
	Err    error
}

// Summary aggregates a whole ingestion batch.
type Summary struct {
	Files     int
	Succeeded int
	Reports   []FileReport
}
