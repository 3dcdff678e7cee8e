package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractor_Extract_Txt(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("Dogs need regular exercise and routine. ", 10)
	path := writeFile(t, dir, "dogs.txt", content)

	text, err := NewExtractor().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

func TestExtractor_Extract_TooShort(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tiny.txt", "just a note")

	_, err := NewExtractor().Extract(path)
	assert.ErrorIs(t, err, ErrUnusable)
}

func TestExtractor_Extract_MostlyBinary(t *testing.T) {
	dir := t.TempDir()
	garbage := strings.Repeat("\x00\x01\x02", 50) + "some words"
	path := writeFile(t, dir, "scan.txt", garbage)

	_, err := NewExtractor().Extract(path)
	assert.ErrorIs(t, err, ErrUnusable)
}

func TestExtractor_Extract_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.docx", strings.Repeat("x", 200))

	_, err := NewExtractor().Extract(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnusable)
}

func TestExtractor_Extract_MissingFile(t *testing.T) {
	_, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestExtractor_Extract_BrokenPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", "this is not a pdf at all")

	_, err := NewExtractor().Extract(path)
	assert.Error(t, err)
}
