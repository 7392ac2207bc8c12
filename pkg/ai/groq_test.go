package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

func writeChat(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
}

func TestGroqComplete_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "summarize this", req.Messages[0].Content)

		writeChat(w, `{"summary":"ok"}`)
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL, Model: "test-model"})
	out, err := client.Complete(context.Background(), "summarize this")

	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, out)
}

func TestGroqComplete_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeChat(w, "done")
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL, Timeout: time.Second})
	out, err := client.Complete(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGroqComplete_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
	_, err := client.Complete(context.Background(), "p")

	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGroqComplete_NotConfigured(t *testing.T) {
	client := NewGroqClient(&config.GroqConfig{})
	assert.False(t, client.Configured())

	_, err := client.Complete(context.Background(), "p")
	assert.Error(t, err)
}
