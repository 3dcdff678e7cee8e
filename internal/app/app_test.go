package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petchat/backend/features/chat"
	"petchat/backend/internal/config"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type stubRetriever struct{}

func (stubRetriever) MatchChunks(ctx context.Context, vec []float32, k int) ([]chat.RetrievedChunk, error) {
	return []chat.RetrievedChunk{{ChunkID: 1, DocumentID: 1, Text: "pet care basics", Similarity: 0.9}}, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return "a calm reply", nil
}

func testConfig() *config.Config {
	return &config.Config{
		ChatModel:              "llama3.2:3b",
		EmbedModel:             "nomic-embed-text",
		ServerPort:             3001,
		RateLimitWindowSeconds: 60,
		RateLimitMax:           20,
		RetrievalTopK:          3,
		Temperature:            0.6,
	}
}

func TestNew(t *testing.T) {
	a := New(testConfig(), stubEmbedder{}, stubRetriever{}, stubGenerator{})
	require.NotNil(t, a)
	require.NotNil(t, a.Handler)
	require.NotNil(t, a.ChatService)
}

func TestApp_Health(t *testing.T) {
	a := New(testConfig(), stubEmbedder{}, stubRetriever{}, stubGenerator{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, "llama3.2:3b", body["chat_model"])
	assert.Equal(t, "nomic-embed-text", body["embed_model"])
	assert.Equal(t, false, body["store_host_set"])
	assert.Equal(t, false, body["store_credential_set"])
}

func TestApp_HealthReportsStoreConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DBHost = "db.internal"
	cfg.DBPass = "secret"
	a := New(cfg, stubEmbedder{}, stubRetriever{}, stubGenerator{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["store_host_set"])
	assert.Equal(t, true, body["store_credential_set"])
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestApp_ChatRoute(t *testing.T) {
	a := New(testConfig(), stubEmbedder{}, stubRetriever{}, stubGenerator{})

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message":"how do I calm my dog"}`))
	req.RemoteAddr = "192.0.2.1:40000"
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp chat.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "a calm reply", resp.Reply)
	assert.Equal(t, 1, resp.RAG.Used)
}

func TestApp_ChatRejectsWrongMethod(t *testing.T) {
	a := New(testConfig(), stubEmbedder{}, stubRetriever{}, stubGenerator{})

	req := httptest.NewRequest("GET", "/chat", nil)
	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestApp_ChatRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	a := New(cfg, stubEmbedder{}, stubRetriever{}, stubGenerator{})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message":"hello"}`))
		req.RemoteAddr = "192.0.2.5:40000"
		w := httptest.NewRecorder()
		a.Handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}
