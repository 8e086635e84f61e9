package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier() (*Notifier, *[]time.Duration) {
	n := New()
	waits := &[]time.Duration{}
	n.sleep = func(d time.Duration) { *waits = append(*waits, d) }
	return n, waits
}

func samplePayload() Payload {
	return Payload{
		Email:     "dev@example.com",
		Task:      "counter-app",
		Round:     1,
		Nonce:     "n0nce",
		RepoURL:   "https://github.com/octocat/counter-app",
		CommitSHA: "abc1234",
		PagesURL:  "https://octocat.github.io/counter-app/",
	}
}

func TestNotifyFirstAttemptSuccess(t *testing.T) {
	var got Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	n, waits := newTestNotifier()
	result := n.Notify(context.Background(), server.URL, samplePayload())

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, *waits)
	assert.Equal(t, samplePayload(), got)
}

func TestNotifyRetriesThenSucceeds(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 4 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	n, waits := newTestNotifier()
	result := n.Notify(context.Background(), server.URL, samplePayload())

	assert.True(t, result.OK)
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, 4, hits)
	// Doubling delays between attempts: 1s, 2s, 4s.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, *waits)
}

func TestNotifyExhaustsAllAttempts(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n, waits := newTestNotifier()
	result := n.Notify(context.Background(), server.URL, samplePayload())

	assert.False(t, result.OK)
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, 4, hits)
	// No wait after the final attempt.
	assert.Len(t, *waits, 3)
}

func TestNotifyTransportFailureRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	n, _ := newTestNotifier()
	result := n.Notify(context.Background(), server.URL, samplePayload())

	assert.False(t, result.OK)
	assert.Equal(t, 4, result.Attempts)
}
