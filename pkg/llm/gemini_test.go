package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeminiClient(serverURL string) *GeminiClient {
	c := NewGeminiClient("test-key", "gemini-2.5-flash")
	c.baseURL = serverURL
	return c
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	var gotReq GeminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  <html></html>  "}]}}]}`))
	}))
	defer server.Close()

	c := newTestGeminiClient(server.URL)
	text, err := c.Generate(context.Background(), "build a counter app")

	require.NoError(t, err)
	assert.Equal(t, "<html></html>", text)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "build a counter app", gotReq.Contents[0].Parts[0].Text)
}

func TestGeminiGenerateNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	c := newTestGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := newTestGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

func TestGeminiGenerateHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestGeminiClient(server.URL)
	_, err := c.Generate(ctx, "prompt")
	assert.Error(t, err)
}
