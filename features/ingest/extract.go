package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnusable marks a file whose extracted text fails the quality check. The
// caller skips the file and keeps the batch going.
var ErrUnusable = errors.New("no usable text extracted")

const (
	minExtractedLen   = 100
	minPrintableRatio = 0.3
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the raw text of a .txt or .pdf file, rejecting content that
// is too short or mostly non-printable (scanned or binary-heavy PDFs mangle
// into garbage rather than failing outright).
func (e *Extractor) Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return check(string(b))
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil {
			return "", fmt.Errorf("parse pdf %s: %w", path, err)
		}
		return check(text)
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func check(text string) (string, error) {
	if len(text) < minExtractedLen {
		return "", fmt.Errorf("%w: only %d characters", ErrUnusable, len(text))
	}

	printable, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if ratio := float64(printable) / float64(total); ratio <= minPrintableRatio {
		return "", fmt.Errorf("%w: printable ratio %.2f", ErrUnusable, ratio)
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
