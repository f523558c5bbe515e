package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racket-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), Options{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return client
}

func TestGenerateReturnsCandidateText(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"1. 这支球拍适合进阶进攻型选手"}]}}]}`))
	})

	out, err := client.Generate(context.Background(), llm.Request{Prompt: "p", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "1. 这支球拍适合进阶进攻型选手", out)
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasSuffix(gotPath, DefaultModel+":generateContent"), "path %q", gotPath)
}

func TestGenerateRateLimitIsQuotaFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Generate(context.Background(), llm.Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, llm.FailureQuota, llm.Classify(err))
}

func TestGenerateServerErrorIsOtherFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal error","status":"INTERNAL"}}`))
	})

	_, err := client.Generate(context.Background(), llm.Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, llm.FailureOther, llm.Classify(err))
}
