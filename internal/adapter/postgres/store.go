package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"petchat/backend/features/chat"
	"petchat/backend/features/ingest"
)

// ErrStore marks corpus read/write failures: constraint violations,
// connectivity loss, or a failing similarity-search routine.
var ErrStore = errors.New("corpus store error")

// Store adapts the external vector-capable Postgres corpus. Similarity math
// stays in the store's match_chunks routine; this adapter never reimplements
// it.
type Store struct {
	db   *sql.DB
	caps ingest.Capabilities
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// ResolveCapabilities probes the schema once and caches the result on the
// store. Older corpus schemas lack the chunk_index column; its absence is a
// capability flag, not an error.
func (s *Store) ResolveCapabilities(ctx context.Context) (ingest.Capabilities, error) {
	var hasChunkIndex bool
	query := `SELECT EXISTS(SELECT 1 FROM information_schema.columns WHERE table_name = 'chunks' AND column_name = 'chunk_index')`
	if err := s.db.QueryRowContext(ctx, query).Scan(&hasChunkIndex); err != nil {
		return ingest.Capabilities{}, fmt.Errorf("%w: probe chunk_index: %v", ErrStore, err)
	}

	s.caps = ingest.Capabilities{HasChunkIndex: hasChunkIndex}
	return s.caps, nil
}

func (s *Store) InsertDocument(ctx context.Context, title, sourcePath string) (int64, error) {
	var id int64
	query := `INSERT INTO documents (title, source_path, created_at) VALUES ($1, $2, NOW()) RETURNING id`
	if err := s.db.QueryRowContext(ctx, query, title, sourcePath).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: insert document: %v", ErrStore, err)
	}
	return id, nil
}

// InsertChunk persists one chunk with its embedding. The ordinal index is
// written only when both the caller supplies it and the schema has the
// column.
func (s *Store) InsertChunk(ctx context.Context, documentID int64, text string, embedding []float32, index *int) (int64, error) {
	var id int64
	var err error

	if s.caps.HasChunkIndex && index != nil {
		query := `INSERT INTO chunks (document_id, chunk_text, embedding, chunk_index, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
		err = s.db.QueryRowContext(ctx, query, documentID, text, pgvector.NewVector(embedding), *index).Scan(&id)
	} else {
		query := `INSERT INTO chunks (document_id, chunk_text, embedding, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id`
		err = s.db.QueryRowContext(ctx, query, documentID, text, pgvector.NewVector(embedding)).Scan(&id)
	}

	if err != nil {
		return 0, fmt.Errorf("%w: insert chunk: %v", ErrStore, err)
	}
	return id, nil
}

// MatchChunks delegates similarity search to the store's match_chunks
// routine and returns rows ordered by similarity descending, at most k.
func (s *Store) MatchChunks(ctx context.Context, queryVec []float32, k int) ([]chat.RetrievedChunk, error) {
	query := `SELECT chunk_id, document_id, chunk_text, similarity FROM match_chunks($1, $2)`
	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(queryVec), k)
	if err != nil {
		return nil, fmt.Errorf("%w: match_chunks: %v", ErrStore, err)
	}
	defer rows.Close()

	var results []chat.RetrievedChunk
	for rows.Next() {
		var c chat.RetrievedChunk
		if err := rows.Scan(&c.ChunkID, &c.DocumentID, &c.Text, &c.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scan match_chunks row: %v", ErrStore, err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: match_chunks rows: %v", ErrStore, err)
	}
	return results, nil
}

func (s *Store) ChunksMissingEmbedding(ctx context.Context) ([]ingest.PendingChunk, error) {
	query := `SELECT id, chunk_text FROM chunks WHERE embedding IS NULL ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select pending chunks: %v", ErrStore, err)
	}
	defer rows.Close()

	var pending []ingest.PendingChunk
	for rows.Next() {
		var p ingest.PendingChunk
		if err := rows.Scan(&p.ID, &p.Text); err != nil {
			return nil, fmt.Errorf("%w: scan pending chunk: %v", ErrStore, err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: pending chunk rows: %v", ErrStore, err)
	}
	return pending, nil
}

func (s *Store) UpdateChunkEmbedding(ctx context.Context, chunkID int64, embedding []float32) error {
	query := `UPDATE chunks SET embedding = $1 WHERE id = $2`
	if _, err := s.db.ExecContext(ctx, query, pgvector.NewVector(embedding), chunkID); err != nil {
		return fmt.Errorf("%w: update chunk embedding: %v", ErrStore, err)
	}
	return nil
}
