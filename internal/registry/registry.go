// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry publishes artifacts (source papers and rendered reports)
// to the remote artifact registry and returns their publish records.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/referee/internal/httputil"
	"github.com/pdiddy/referee/pkg/types"
)

const defaultVisibility = "unlisted"

// PublishError reports a failed publish operation. A failed source-document
// publish is recoverable (the report description falls back to "unknown");
// a failed report publish is fatal for the remote sink.
type PublishError struct {
	Op  string
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing %s: %v", e.Op, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Client talks to the artifact registry over HTTP.
type Client struct {
	cfg    types.RegistryConfig
	client *http.Client
}

// NewClient builds a registry client from configuration. A zero timeout
// defaults to two minutes; an empty visibility defaults to "unlisted".
func NewClient(cfg types.RegistryConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if cfg.Visibility == "" {
		cfg.Visibility = defaultVisibility
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// publishResponse is the JSON body the registry returns on success.
type publishResponse struct {
	URL        string `json:"url"`
	AliasURL   string `json:"alias_url"`
	UID        string `json:"uuid"`
	Version    string `json:"version"`
	Visibility string `json:"visibility"`
}

// Publish uploads the file at path with a human-readable description and
// returns its publish record. Rate-limited and transient server errors are
// retried with backoff.
func (c *Client) Publish(ctx context.Context, path, description string) (types.PublishRecord, error) {
	if c.cfg.BaseURL == "" {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: fmt.Errorf("registry base URL not configured")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: err}
	}

	body, contentType, err := multipartBody(filepath.Base(path), data, description, c.cfg.Visibility)
	if err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/artifacts", bytes.NewReader(body))
	if err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	// The body is replayed on retry.
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return types.PublishRecord{}, &PublishError{
			Op:  filepath.Base(path),
			Err: fmt.Errorf("registry returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody)),
		}
	}

	var pr publishResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return types.PublishRecord{}, &PublishError{Op: filepath.Base(path), Err: fmt.Errorf("decoding publish response: %w", err)}
	}

	return types.PublishRecord{
		URL:        pr.URL,
		AliasURL:   pr.AliasURL,
		UID:        pr.UID,
		Version:    pr.Version,
		Visibility: pr.Visibility,
	}, nil
}

// multipartBody builds the upload form: the artifact file plus description
// and visibility fields.
func multipartBody(filename string, data []byte, description, visibility string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("description", description); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("visibility", visibility); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
