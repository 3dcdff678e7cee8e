package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"petchat/backend/internal/text"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Whitespace Only", " \t\n  ", ""},
		{"Collapses Runs", "a  b\t\tc\n\nd", "a b c d"},
		{"Trims Ends", "  hello world  ", "hello world"},
		{"Already Normalized", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Normalize(tt.input))
		})
	}
}

func TestChunk_ShortInputYieldsNothing(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"short",
		strings.Repeat("a", text.MinChunkLen-1),
	}
	for _, in := range inputs {
		assert.Empty(t, text.Chunk(in))
	}
}

func TestChunk_MinimumLengthBoundary(t *testing.T) {
	in := strings.Repeat("a", text.MinChunkLen)
	chunks := text.Chunk(in)
	assert.Len(t, chunks, 1)
	assert.Equal(t, in, chunks[0])
}

func TestChunk_SingleWindow(t *testing.T) {
	in := strings.Repeat("x", 500)
	chunks := text.Chunk(in)
	assert.Len(t, chunks, 1)
	assert.Equal(t, in, chunks[0])
}

func TestChunk_LengthBounds(t *testing.T) {
	in := strings.Repeat("the quick brown fox jumps over the lazy dog ", 200)
	chunks := text.Chunk(in)
	assert.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(c), text.MinChunkLen)
		assert.LessOrEqual(t, len(c), text.ChunkSize)
	}
}

func TestChunk_OverlapBetweenConsecutiveChunks(t *testing.T) {
	// No whitespace, so trimming cannot shift window boundaries.
	in := strings.Repeat("abcdefghij", 300) // 3000 chars
	chunks := text.Chunk(in)
	assert.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-text.Overlap:]
		head := chunks[i+1][:text.Overlap]
		assert.Equal(t, tail, head, "chunk %d must share its last %d chars with chunk %d", i, text.Overlap, i+1)
	}
}

func TestChunk_NormalizationIdempotent(t *testing.T) {
	in := "  " + strings.Repeat("some  words\twith   odd\nspacing ", 100)
	for _, c := range text.Chunk(in) {
		assert.Equal(t, c, text.Normalize(c))
	}
}

func TestChunk_Deterministic(t *testing.T) {
	in := strings.Repeat("deterministic input never changes ", 100)
	assert.Equal(t, text.Chunk(in), text.Chunk(in))
}

func TestChunk_TailShorterThanMinimumIsDropped(t *testing.T) {
	// 800 chars fill the first window exactly; the second window starts at
	// 650 and runs to the end. Make that remainder shorter than MinChunkLen.
	in := strings.Repeat("z", text.ChunkSize+100) // second window is 250 chars, kept
	chunks := text.Chunk(in)
	assert.Len(t, chunks, 2)

	in = strings.Repeat("z", text.ChunkSize+10) // second window is 160 chars, kept
	chunks = text.Chunk(in)
	assert.Len(t, chunks, 2)

	// A trailing window below the minimum must be discarded, not stored.
	in = strings.Repeat("z", 2*text.ChunkSize-2*text.Overlap+10)
	chunks = text.Chunk(in)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(c), text.MinChunkLen)
	}
}
