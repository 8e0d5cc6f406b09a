package ollama

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

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed_SendsModelAndPrompt(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "hola", req.Prompt)

		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.5, 0.25, 1}})
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL + "/"})
	assert.Equal(t, 0, svc.Dimensions())

	vec, err := svc.Embed(context.Background(), "hola")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, 1}, vec)
	assert.Equal(t, 3, svc.Dimensions())
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestEmbed_ServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})
	_, err := svc.Embed(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbed_EmptyEmbedding(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})
	_, err := svc.Embed(context.Background(), "x")

	assert.Error(t, err)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{float64(len(req.Prompt)), 1}})
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, RequestsPerSecond: 1000})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "abc", "ab"})

	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, float32(1), vecs[0][0])
	assert.Equal(t, float32(3), vecs[1][0])
	assert.Equal(t, float32(2), vecs[2][0])
}

func TestEmbedBatch_StopsOnFirstError(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"embedding":[1,2]}`))
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL})
	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 1")
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbed_RateLimiterHonoursContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1]}`))
	})

	svc := NewEmbeddingService(Config{BaseURL: srv.URL, RequestsPerSecond: 0.001})
	_, err := svc.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Embed(ctx, "second")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			err := NewEmbeddingService(Config{BaseURL: srv.URL}).Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
