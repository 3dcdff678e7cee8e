package text

import (
	"regexp"
	"strings"
)

// Chunking configuration. Consecutive chunks overlap by Overlap characters so
// information spanning a chunk boundary stays retrievable; windows shorter
// than MinChunkLen are discarded rather than stored as dangling fragments.
const (
	ChunkSize   = 800
	Overlap     = 150
	MinChunkLen = 150
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize collapses all runs of whitespace to a single space and trims the
// ends. Chunk output is already normalized, so Normalize is idempotent on it.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Chunk splits normalized text into overlapping fixed-size segments. It walks
// the text with a sliding window of ChunkSize characters, emitting each
// trimmed window of at least MinChunkLen characters, then advances to
// end-Overlap until a window reaches the end of the text. Text shorter than
// MinChunkLen yields no chunks; that is a valid outcome, not an error.
func Chunk(s string) []string {
	t := Normalize(s)

	var chunks []string
	start := 0

	for start < len(t) {
		end := start + ChunkSize
		if end > len(t) {
			end = len(t)
		}

		chunk := strings.TrimSpace(t[start:end])
		if len(chunk) >= MinChunkLen {
			chunks = append(chunks, chunk)
		}

		if end == len(t) {
			break
		}
		start = end - Overlap
	}

	return chunks
}
