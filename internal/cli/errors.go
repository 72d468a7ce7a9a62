// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/fenceline/internal/execute"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general error, or findings from validate
	// and crosscheck
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrBlockIndex is returned by run when --block does not name a code block.
var ErrBlockIndex = errors.New("block index out of range")

// ExitError carries an exit code. A nil Err exits silently, which commands
// use after they have already printed their findings.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// findings returns a silent exit 1 used when a check found problems.
func findings() error {
	return &ExitError{Code: ExitGeneralError}
}

// ConfigError wraps a configuration failure.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a missing input file or config key.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	var nfErr *NotFoundError
	if errors.As(err, &nfErr) {
		return ExitNotFoundError
	}
	if errors.Is(err, ErrBlockIndex) {
		return ExitUsageError
	}

	switch {
	case errors.Is(err, execute.ErrTimeout):
		return ExitTimeoutError
	case errors.Is(err, &execute.ClientError{Type: execute.ErrTypeConnection}):
		return ExitNetworkError
	case errors.Is(err, execute.ErrNoEndpoint):
		return ExitConfigError
	}
	return ExitGeneralError
}
