// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner implements the model runner collaborator: an HTTP client
// for a chat-completion gateway, plus a caching decorator that persists
// answers in a local SQLite database.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/referee/internal/httputil"
	"github.com/pdiddy/referee/pkg/types"
)

// HTTPRunner evaluates prompts against a chat-completion gateway. The
// gateway routes each request to the provider named by the model's service
// tag; this client only speaks the gateway's JSON protocol.
type HTTPRunner struct {
	cfg    types.RunnerConfig
	client *http.Client
}

// NewHTTPRunner builds a runner from configuration. A zero timeout defaults
// to five minutes, which accommodates reasoning models on long papers.
func NewHTTPRunner(cfg types.RunnerConfig) *HTTPRunner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPRunner{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// chatRequest is the JSON body sent to /v1/chat.
type chatRequest struct {
	Model    string         `json:"model"`
	Service  string         `json:"service"`
	Messages []chatMessage  `json:"messages"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the JSON body the gateway returns.
type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Evaluate sends the rendered prompt to the gateway for the given model and
// returns the answer text. Generation parameters are sent only when set on
// the model config.
func (r *HTTPRunner) Evaluate(ctx context.Context, model types.ModelConfig, prompt string) (string, error) {
	if r.cfg.BaseURL == "" {
		return "", fmt.Errorf("runner base URL not configured")
	}

	creq := chatRequest{
		Model:   model.Name,
		Service: model.Service,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Options: generationOptions(model),
	}

	body, err := json.Marshal(creq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := httputil.DoWithRetry(ctx, r.client, req, r.cfg.MaxRetries)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var cresp chatResponse
	if err := json.Unmarshal(respBody, &cresp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if cresp.Message.Content == "" {
		return "", fmt.Errorf("gateway returned an empty answer for %s", model.Name)
	}
	return cresp.Message.Content, nil
}

// generationOptions maps the model's optional parameters to the gateway's
// options bag, omitting unset (zero) fields.
func generationOptions(model types.ModelConfig) map[string]any {
	opts := make(map[string]any)
	if model.ReasoningTokens > 0 {
		opts["reasoning_tokens"] = model.ReasoningTokens
	}
	if model.MaxCompletionTokens > 0 {
		opts["max_completion_tokens"] = model.MaxCompletionTokens
	}
	if model.MaxTokens > 0 {
		opts["max_tokens"] = model.MaxTokens
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}
