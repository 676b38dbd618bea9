// Package kryos is the HTTP client for the Kryos hash registry.
package kryos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	hashesPath     = "/api/hashes"
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 512
)

// Config holds the registry endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// StatusError is returned when the registry answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("kryos: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("kryos: unexpected status %d: %s", e.StatusCode, e.Body)
}

type hashRequest struct {
	Hash        string `json:"hash"`
	ReferenceID string `json:"referenceId"`
}

// Client posts fingerprints to the registry.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// SendHash posts {hash, referenceId} to {baseURL}/api/hashes with the API key
// as a bearer token. Only the status code of the response is inspected.
func (c *Client) SendHash(ctx context.Context, hash, referenceID string) error {
	body, err := json.Marshal(hashRequest{Hash: hash, ReferenceID: referenceID})
	if err != nil {
		return fmt.Errorf("kryos: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+hashesPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("kryos: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kryos: send hash: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
