// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides an HTTP API over the segmentation engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/fenceline/internal/config"
	"github.com/jeranaias/fenceline/internal/crosscheck"
	"github.com/jeranaias/fenceline/internal/logging"
	"github.com/jeranaias/fenceline/internal/segment"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8787

	// DefaultHost keeps the API on the loopback interface.
	DefaultHost = "127.0.0.1"
)

// Error types reported in the error envelope.
const (
	errTypeInvalidRequest = "invalid_request_error"
	errTypeTooLarge       = "request_too_large"
	errTypeRateLimit      = "rate_limit_error"
	errTypeNotFound       = "not_found"
	errTypeServer         = "server_error"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks server usage statistics.
type ServerStats struct {
	TotalRequests     atomic.Int64
	BuffersProcessed  atomic.Int64
	BytesProcessed    atomic.Int64
	IncompleteBuffers atomic.Int64
	RateLimited       atomic.Int64
	StartTime         time.Time
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

// RecordBuffer records one processed buffer.
func (s *ServerStats) RecordBuffer(buffer string, incomplete bool) {
	s.BuffersProcessed.Add(1)
	s.BytesProcessed.Add(int64(len(buffer)))
	if incomplete {
		s.IncompleteBuffers.Add(1)
	}
}

// Uptime returns the server uptime duration.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Config  config.ServerConfig
	Version string
	Logger  *logrus.Logger
}

// Server is the HTTP diagnostics API.
type Server struct {
	cfg     config.ServerConfig
	version string
	logger  *logrus.Logger
	stats   *ServerStats
	limiter *RateLimiter

	router *chi.Mux
	server *http.Server
}

// New creates a Server. Zero host and port fall back to the loopback
// default on port 8787.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		cfg:     cfg,
		version: opts.Version,
		logger:  logger,
		stats:   NewServerStats(),
		limiter: NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Stats returns the live usage counters.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

// ============================================================================
// ROUTES
// ============================================================================

// setupRoutes configures middleware and all HTTP routes.
func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.stats.TotalRequests.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	r.Use(RateLimitMiddleware(s.limiter, func() { s.stats.RateLimited.Add(1) }))
	r.Use(BodyLimitMiddleware(s.cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errTypeNotFound, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errTypeInvalidRequest, r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)

	r.Post("/v1/segments", s.handleSegments)
	r.Post("/v1/validate", s.handleValidate)
	r.Post("/v1/blocks", s.handleBlocks)
	r.Post("/v1/crosscheck", s.handleCrosscheck)

	s.router = r
}

// ============================================================================
// API TYPES
// ============================================================================

// BufferRequest is the body of every POST endpoint.
type BufferRequest struct {
	Buffer string `json:"buffer"`
}

// SegmentsResponse is returned by POST /v1/segments. Fenced is false when
// the buffer contains no fence token, in which case Segments is empty.
type SegmentsResponse struct {
	Segments   []segment.Segment `json:"segments"`
	Fenced     bool              `json:"fenced"`
	Incomplete bool              `json:"incomplete"`
}

// ValidateResponse is returned by POST /v1/validate.
type ValidateResponse struct {
	Issues []segment.ValidationIssue `json:"issues"`
}

// BlocksResponse is returned by POST /v1/blocks.
type BlocksResponse struct {
	Blocks []segment.CodeBlockRecord `json:"blocks"`
}

// CrosscheckResponse is returned by POST /v1/crosscheck.
type CrosscheckResponse struct {
	Divergences []crosscheck.Divergence `json:"divergences"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatsResponse represents the usage statistics response.
type StatsResponse struct {
	TotalRequests     int64 `json:"total_requests"`
	BuffersProcessed  int64 `json:"buffers_processed"`
	BytesProcessed    int64 `json:"bytes_processed"`
	IncompleteBuffers int64 `json:"incomplete_buffers"`
	RateLimited       int64 `json:"rate_limited"`
	UptimeSeconds     int64 `json:"uptime_seconds"`
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleSegments handles POST /v1/segments.
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	buffer, ok := s.readBuffer(w, r)
	if !ok {
		return
	}

	segs := segment.Split(buffer)
	resp := SegmentsResponse{
		Segments: segs,
		Fenced:   segs != nil,
	}
	if resp.Segments == nil {
		resp.Segments = []segment.Segment{}
	}
	if n := len(segs); n > 0 {
		resp.Incomplete = !segs[n-1].IsComplete
	}
	s.stats.RecordBuffer(buffer, resp.Incomplete)

	writeJSON(w, http.StatusOK, resp)
}

// handleValidate handles POST /v1/validate.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	buffer, ok := s.readBuffer(w, r)
	if !ok {
		return
	}

	issues := segment.ValidateSyntax(buffer)
	s.stats.RecordBuffer(buffer, len(issues) > 0)
	if issues == nil {
		issues = []segment.ValidationIssue{}
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Issues: issues})
}

// handleBlocks handles POST /v1/blocks.
func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	buffer, ok := s.readBuffer(w, r)
	if !ok {
		return
	}

	blocks := segment.ExtractCodeBlocks(buffer)
	s.stats.RecordBuffer(buffer, segment.HasIncompleteCodeBlock(buffer))
	if blocks == nil {
		blocks = []segment.CodeBlockRecord{}
	}
	writeJSON(w, http.StatusOK, BlocksResponse{Blocks: blocks})
}

// handleCrosscheck handles POST /v1/crosscheck.
func (s *Server) handleCrosscheck(w http.ResponseWriter, r *http.Request) {
	buffer, ok := s.readBuffer(w, r)
	if !ok {
		return
	}

	divs := crosscheck.Compare(buffer)
	s.stats.RecordBuffer(buffer, segment.HasIncompleteCodeBlock(buffer))
	if divs == nil {
		divs = []crosscheck.Divergence{}
	}
	writeJSON(w, http.StatusOK, CrosscheckResponse{Divergences: divs})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalRequests:     s.stats.TotalRequests.Load(),
		BuffersProcessed:  s.stats.BuffersProcessed.Load(),
		BytesProcessed:    s.stats.BytesProcessed.Load(),
		IncompleteBuffers: s.stats.IncompleteBuffers.Load(),
		RateLimited:       s.stats.RateLimited.Load(),
		UptimeSeconds:     int64(s.stats.Uptime().Seconds()),
	})
}

// readBuffer reads the request buffer. A text/plain body is the buffer
// itself; anything else must be a BufferRequest. On failure the error
// response has been written and ok is false.
func (s *Server) readBuffer(w http.ResponseWriter, r *http.Request) (buffer string, ok bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "text/plain" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			s.writeBodyError(w, err)
			return "", false
		}
		return string(data), true
	}

	var req BufferRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeBodyError(w, err)
		return "", false
	}
	return req.Buffer, true
}

// writeBodyError maps a body read or decode error to a response.
func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, errTypeTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, errTypeInvalidRequest, "request body is empty")
	default:
		writeError(w, http.StatusBadRequest, errTypeInvalidRequest, "invalid request body: "+err.Error())
	}
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens and serves until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr":    s.Addr(),
		"version": s.version,
	}).Info("server starting")

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve serves on an existing listener. Used when the caller picks the port.
func (s *Server) Serve(l net.Listener) error {
	s.logger.WithField("addr", l.Addr().String()).Info("server starting")

	err := s.server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"requests": s.stats.TotalRequests.Load(),
		"buffers":  s.stats.BuffersProcessed.Load(),
	}).Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    errType,
			"code":    status,
		},
	})
}
