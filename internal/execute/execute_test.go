// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execute sends code segments to a remote execution endpoint.
package execute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/fenceline/internal/segment"
)

// =============================================================================
// FROM SEGMENT
// =============================================================================

func TestFromSegment(t *testing.T) {
	segs := segment.Split("run this:\n```python\nprint(1)\n```\n```sh\nls")
	require.Len(t, segs, 3)

	_, err := FromSegment(segs[0])
	assert.ErrorIs(t, err, ErrNotRunnable, "text segments are not runnable")

	req, err := FromSegment(segs[1])
	require.NoError(t, err)
	assert.Equal(t, "print(1)", req.Code)
	assert.Equal(t, "python", req.Language)
	_, err = uuid.Parse(req.ExecutionID)
	assert.NoError(t, err)

	_, err = FromSegment(segs[2])
	assert.ErrorIs(t, err, ErrNotRunnable, "incomplete blocks are not runnable")
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

func TestHTTPClient_Execute(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Result{Success: true, Result: "1\n"})
	}))
	defer server.Close()

	client := NewHTTPClient(&ClientConfig{Endpoint: server.URL})
	res, err := client.Execute(context.Background(), Request{Code: "print(1)", Language: "python"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "1\n", res.Result)
	assert.Equal(t, "print(1)", got.Code)
	assert.NotEmpty(t, got.ExecutionID, "missing execution id is filled in")
}

func TestHTTPClient_FailedExecution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Success: false, Error: "SyntaxError"})
	}))
	defer server.Close()

	res, err := NewHTTPClient(&ClientConfig{Endpoint: server.URL}).Execute(context.Background(), Request{Code: "print("})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "SyntaxError", res.Error)
}

func TestHTTPClient_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPClient(&ClientConfig{Endpoint: server.URL}).Execute(context.Background(), Request{Code: "x"})
	require.Error(t, err)

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeInvalidResponse, ce.Type)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewHTTPClient(&ClientConfig{Endpoint: server.URL}).Execute(context.Background(), Request{Code: "x"})
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeInvalidResponse, ce.Type)
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPClient(&ClientConfig{Endpoint: server.URL}).Execute(ctx, Request{Code: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestHTTPClient_NoEndpoint(t *testing.T) {
	client := NewHTTPClient(nil)
	_, err := client.Execute(context.Background(), Request{Code: "x"})
	assert.ErrorIs(t, err, ErrNoEndpoint)
	assert.Equal(t, "", client.Endpoint())
}

func TestClientError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &ClientError{Type: ErrTypeConnection, Message: "unreachable", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unreachable: dial tcp: refused", err.Error())
	assert.False(t, errors.Is(err, ErrTimeout))
}
