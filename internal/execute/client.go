// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execute sends code segments to a remote execution endpoint.
package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultTimeout bounds a single execution request.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps the decoded response body.
const maxResponseBytes = 4 << 20

// ClientConfig holds configuration options for the HTTP client.
type ClientConfig struct {
	// Endpoint is the URL requests are POSTed to.
	Endpoint string

	// Timeout for a single request (default: 30s)
	Timeout time.Duration
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// HTTPClient posts execution requests as JSON. Safe for concurrent use.
type HTTPClient struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewHTTPClient creates a client. A nil config yields a client with no
// endpoint, which fails every call with ErrNoEndpoint.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	cfg := ClientConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &HTTPClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Execute implements Executor.
func (c *HTTPClient) Execute(ctx context.Context, req Request) (*Result, error) {
	if c.config.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if req.ExecutionID == "" {
		req.ExecutionID = uuid.NewString()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "execution timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "execution endpoint unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("execution endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg)),
		}
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid execution response", Cause: err}
	}
	return &result, nil
}

// Endpoint returns the configured endpoint.
func (c *HTTPClient) Endpoint() string {
	return c.config.Endpoint
}
