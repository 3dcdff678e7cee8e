package chat

import (
	"context"
	"fmt"
	"log/slog"

	"petchat/backend/internal/safety"
)

// Service runs the retrieval-augmented pipeline for one chat request:
// safety gate, query embedding, similarity retrieval, prompt construction,
// generation, response shaping. Stages run once; the first failure ends the
// request.
type Service struct {
	gate        *safety.Gate
	embedder    Embedder
	retriever   Retriever
	generator   Generator
	prompts     *PromptBuilder
	topK        int
	temperature float64
}

func NewService(gate *safety.Gate, e Embedder, r Retriever, g Generator, p *PromptBuilder, topK int, temperature float64) *Service {
	return &Service{
		gate:        gate,
		embedder:    e,
		retriever:   r,
		generator:   g,
		prompts:     p,
		topK:        topK,
		temperature: temperature,
	}
}

// Chat processes one message. A blocked message short-circuits before any
// embedding, retrieval, or generation work and is not an error.
func (s *Service) Chat(ctx context.Context, message string) (*Response, error) {
	gated, err := s.gate.Classify(message)
	if err != nil {
		return nil, err
	}
	if gated.Blocked {
		return &Response{
			OK:      true,
			Blocked: true,
			Reply:   gated.Reply,
			RAG:     RAGInfo{Used: 0, Sources: []Source{}},
		}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed message: %w", err)
	}
	slog.InfoContext(ctx, "query embedded", "embed_dim", len(queryVec))

	chunks, err := s.retriever.MatchChunks(ctx, queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}
	slog.InfoContext(ctx, "chunks retrieved", "chunks_found", len(chunks))

	prompt := s.prompts.Build(message, chunks)

	reply, err := s.generator.Generate(ctx, prompt, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	sources := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, Source{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			Similarity: c.Similarity,
		})
	}

	return &Response{
		OK:    true,
		Reply: reply,
		RAG:   RAGInfo{Used: len(chunks), Sources: sources},
	}, nil
}
