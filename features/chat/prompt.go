package chat

import (
	"fmt"
	"strings"
)

// PromptConfig holds the fixed framing around every generation prompt. It is
// loaded once at startup and injected, so tests can substitute the template.
type PromptConfig struct {
	Header    string
	NoContext string
}

var DefaultPromptConfig = PromptConfig{
	Header: "You are PetChat, a supportive emotional-support assistant.\n" +
		"You are not a therapist. Encourage professional help when appropriate.\n" +
		"Use the CONTEXT when relevant. If context is not relevant, answer normally.",
	NoContext: "(no relevant context found)",
}

type PromptBuilder struct {
	cfg PromptConfig
}

func NewPromptBuilder(cfg PromptConfig) *PromptBuilder {
	return &PromptBuilder{cfg: cfg}
}

// Build assembles the generation prompt: the fixed header, a CONTEXT section
// listing retrieved chunks in the order retrieval returned them, and the
// verbatim user message. Deterministic for a given input.
func (b *PromptBuilder) Build(userMessage string, chunks []RetrievedChunk) string {
	lines := make([]string, 0, len(chunks))
	for i, c := range chunks {
		lines = append(lines, fmt.Sprintf("Source %d (sim %.3f):\n%s", i+1, c.Similarity, c.Text))
	}

	context := strings.Join(lines, "\n\n")
	if context == "" {
		context = b.cfg.NoContext
	}

	return strings.TrimSpace(fmt.Sprintf("%s\n\nCONTEXT:\n%s\n\nUSER:\n%s", b.cfg.Header, context, userMessage))
}
