// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides an HTTP API over the segmentation engine.
//
// The API lets tooling outside the terminal inspect how a response buffer
// will be split before it reaches a renderer.
//
// # Endpoints
//
//   - POST /v1/segments   - Split a buffer into text and code segments
//   - POST /v1/validate   - Report a dangling fence
//   - POST /v1/blocks     - Extract code block records
//   - POST /v1/crosscheck - Compare code blocks against a CommonMark parse
//   - GET  /health        - Health check
//   - GET  /stats         - Usage statistics
//
// Request bodies are either {"buffer": "..."} with a JSON content type or
// the raw buffer sent as text/plain.
//
// # Middleware
//
//   - Request IDs (chi)
//   - Panic recovery with a JSON 500
//   - Security headers
//   - Request logging through logrus
//   - Per-client token bucket rate limiting
//   - Request body size limit
//
// # Usage
//
//	srv := server.New(server.Options{
//		Config:  config.Global().Server,
//		Version: "0.1.0",
//		Logger:  logger,
//	})
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
