package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream marks failures of the local inference service: unreachable
// host, non-success status, or a malformed response body.
var ErrUpstream = errors.New("inference service error")

type Options struct {
	BaseURL    string
	ChatModel  string
	EmbedModel string

	// Timeout bounds each HTTP call; zero means no deadline, matching the
	// reference single unbounded attempt.
	Timeout time.Duration

	// Retry enables one retry on connection error. Off by default.
	Retry bool
}

// Client wraps the inference service's embedding and generation endpoints.
// Calls are single synchronous attempts; the pipeline decides what a failure
// means.
type Client struct {
	baseURL    string
	chatModel  string
	embedModel string
	retry      bool
	client     *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "http://localhost:11434"
	}

	return &Client{
		baseURL:    base,
		chatModel:  opts.ChatModel,
		embedModel: opts.EmbedModel,
		retry:      opts.Retry,
		client:     &http.Client{Timeout: opts.Timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed converts text to a fixed-length vector via POST /api/embeddings.
// The vector's dimensionality is whatever the configured model emits.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.embedModel, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embeddings request: %w", err)
	}

	resp, err := c.post(ctx, c.baseURL+"/api/embeddings", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: embeddings failed: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	var payload embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode embeddings response: %v", ErrUpstream, err)
	}
	if payload.Embedding == nil {
		return nil, fmt.Errorf("%w: missing embedding array", ErrUpstream)
	}

	return payload.Embedding, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate produces a completion via POST /api/generate with stream disabled.
// An absent response field yields an empty string; upstream's contract allows
// empty completions.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.chatModel,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	resp, err := c.post(ctx, c.baseURL+"/api/generate", body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: generate failed: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode generate response: %v", ErrUpstream, err)
	}

	return payload.Response, nil
}

// Ping checks reachability via GET /api/tags, the same probe the ingestion
// batch runs before touching any file.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: tags failed: HTTP %d", ErrUpstream, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	attempts := 1
	if c.retry {
		attempts = 2
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}
