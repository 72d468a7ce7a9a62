// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execute sends code segments to a remote execution endpoint.
package execute

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jeranaias/fenceline/internal/segment"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the execution client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type so wrapped sentinels compare equal.
func (e *ClientError) Is(target error) bool {
	var ce *ClientError
	if !errors.As(target, &ce) {
		return false
	}
	return ce.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunnable
	ErrTypeNoEndpoint
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunnable = &ClientError{Type: ErrTypeNotRunnable, Message: "segment is not a complete code block"}
	ErrNoEndpoint  = &ClientError{Type: ErrTypeNoEndpoint, Message: "no execution endpoint configured"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "execution timed out"}
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Request is a single code execution request.
type Request struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	ExecutionID string `json:"execution_id"`
}

// Result is the endpoint's answer.
type Result struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Executor runs code requests.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}

// FromSegment builds a request for a code segment. Text segments and code
// blocks still waiting for their closing fence are refused.
func FromSegment(seg segment.Segment) (Request, error) {
	if !seg.IsCode() || !seg.IsComplete {
		return Request{}, ErrNotRunnable
	}
	return Request{
		Code:        seg.Content,
		Language:    seg.Language,
		ExecutionID: uuid.NewString(),
	}, nil
}
