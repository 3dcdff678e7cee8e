package chat

import "context"

// RetrievedChunk is an ephemeral projection of a corpus chunk returned by
// similarity search. It lives for one request only.
type RetrievedChunk struct {
	ChunkID    int64
	DocumentID int64
	Text       string
	Similarity float64
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Retriever interface {
	MatchChunks(ctx context.Context, queryVec []float32, k int) ([]RetrievedChunk, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

type Request struct {
	Message string `json:"message"`
}

type Source struct {
	ChunkID    int64   `json:"chunk_id"`
	DocumentID int64   `json:"document_id"`
	Similarity float64 `json:"similarity"`
}

type RAGInfo struct {
	Used    int      `json:"used"`
	Sources []Source `json:"sources"`
}

type Response struct {
	OK      bool    `json:"ok"`
	Blocked bool    `json:"blocked"`
	Reply   string  `json:"reply"`
	RAG     RAGInfo `json:"rag"`
}
