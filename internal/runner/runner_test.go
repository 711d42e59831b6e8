package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/referee/internal/httputil"
	"github.com/pdiddy/referee/pkg/types"
)

func TestEvaluateSendsGatewayRequest(t *testing.T) {
	var got chatRequest
	var auth, userAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		userAgent = r.Header.Get("User-Agent")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "the answer"}})
	}))
	defer server.Close()

	r := NewHTTPRunner(types.RunnerConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "referee/test"},
		BaseURL:    server.URL,
		APIKey:     "key123",
	})

	model := types.ModelConfig{
		Name:            "o1-preview",
		Service:         "openai",
		ReasoningTokens: 100_000,
		MaxTokens:       32_768,
	}
	answer, err := r.Evaluate(context.Background(), model, "review this")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	assert.Equal(t, "Bearer key123", auth)
	assert.Equal(t, "referee/test", userAgent)
	assert.Equal(t, "o1-preview", got.Model)
	assert.Equal(t, "openai", got.Service)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "review this", got.Messages[0].Content)
	assert.EqualValues(t, 100_000, got.Options["reasoning_tokens"])
	assert.EqualValues(t, 32_768, got.Options["max_tokens"])
	assert.NotContains(t, got.Options, "max_completion_tokens")
}

func TestEvaluateOmitsUnsetOptions(t *testing.T) {
	var raw map[string]json.RawMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "ok"}})
	}))
	defer server.Close()

	r := NewHTTPRunner(types.RunnerConfig{BaseURL: server.URL})
	_, err := r.Evaluate(context.Background(), types.ModelConfig{Name: "m", Service: "s"}, "p")
	require.NoError(t, err)

	assert.NotContains(t, raw, "options")
}

func TestEvaluateGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusBadRequest)
	}))
	defer server.Close()

	r := NewHTTPRunner(types.RunnerConfig{BaseURL: server.URL})
	_, err := r.Evaluate(context.Background(), types.ModelConfig{Name: "m", Service: "s"}, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "no such model")
}

func TestEvaluateRetriesServerErrors(t *testing.T) {
	oldDelay := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = oldDelay }()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "eventually"}})
	}))
	defer server.Close()

	r := NewHTTPRunner(types.RunnerConfig{BaseURL: server.URL})
	answer, err := r.Evaluate(context.Background(), types.ModelConfig{Name: "m", Service: "s"}, "p")
	require.NoError(t, err)
	assert.Equal(t, "eventually", answer)
	assert.Equal(t, 3, calls)
}

func TestEvaluateEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	r := NewHTTPRunner(types.RunnerConfig{BaseURL: server.URL})
	_, err := r.Evaluate(context.Background(), types.ModelConfig{Name: "m", Service: "s"}, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty answer")
}

func TestEvaluateRequiresBaseURL(t *testing.T) {
	r := NewHTTPRunner(types.RunnerConfig{})
	_, err := r.Evaluate(context.Background(), types.ModelConfig{Name: "m", Service: "s"}, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")
}
