package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body.Model)
		assert.NotEmpty(t, body.Prompt)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.1, 0.2, 0.3},
		})
	}))
}

func TestOllamaProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("generates embedding from service", func(t *testing.T) {
		var calls atomic.Int32
		srv := newEmbeddingServer(t, &calls)
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "", nil)
		assert.Equal(t, DefaultOllamaModel, p.Model())

		emb, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, emb.Vector)
		assert.Equal(t, 3, emb.Dimension)
		assert.Equal(t, ProviderOllama, emb.Provider)
	})

	t.Run("cache avoids repeat calls", func(t *testing.T) {
		var calls atomic.Int32
		srv := newEmbeddingServer(t, &calls)
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "", NewCache(10))

		_, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "cached"})
		require.NoError(t, err)
		_, err = p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "cached"})
		require.NoError(t, err)

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("service error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "model not found", http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "", nil)
		_, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "boom"})
		assert.ErrorIs(t, err, ErrProviderFailed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("unreachable service fails fast", func(t *testing.T) {
		p := NewOllamaProvider("http://127.0.0.1:1", "", nil)
		_, err := p.GenerateEmbedding(ctx, EmbeddingRequest{Text: "x"})
		assert.ErrorIs(t, err, ErrProviderFailed)
	})

	t.Run("batch preserves order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Prompt string `json:"prompt"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			// Vector encodes the prompt length so order is observable.
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"embedding": []float32{float32(len(body.Prompt))},
			})
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "", nil)
		resp, err := p.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{"a", "bb", "ccc"}})
		require.NoError(t, err)
		require.Len(t, resp.Embeddings, 3)
		assert.Equal(t, float32(1), resp.Embeddings[0].Vector[0])
		assert.Equal(t, float32(2), resp.Embeddings[1].Vector[0])
		assert.Equal(t, float32(3), resp.Embeddings[2].Vector[0])
	})
}

func TestFactory(t *testing.T) {
	t.Run("empty provider defaults to ollama", func(t *testing.T) {
		emb, err := New(Config{OllamaBaseURL: "http://localhost:11434"})
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, emb.Provider())
	})

	t.Run("local provider", func(t *testing.T) {
		emb, err := New(Config{Provider: "local"})
		require.NoError(t, err)
		assert.Equal(t, ProviderLocal, emb.Provider())
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		_, err := New(Config{Provider: "openai"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
}
