// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the transcript replay viewer.
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/fenceline/internal/segment"
)

const (
	defaultBatchSize = 15
	defaultMaxFPS    = 30
	maxFPSCap        = 60
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches tokens so the message is re-segmented at a capped
// rate. Pending tokens are flushed when the batch size is reached, when
// 1/maxFPS has passed since the last flush, or as soon as a fence line is
// completed, so a code block opens or closes on the next frame.
//
// All operations are safe for concurrent use.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	// lineHead holds the first bytes of the line being written, enough to
	// recognise a fence once the line ends
	lineHead string
	fenceDue bool

	batchSize     int
	maxFPS        int
	minFlushDelay time.Duration

	now func() time.Time
}

// NewStreamingBuffer creates a buffer with 15-token batches at 30fps.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(defaultBatchSize, defaultMaxFPS)
}

// NewStreamingBufferWithConfig creates a buffer with custom settings. Out of
// range values fall back to the defaults.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxFPS <= 0 || maxFPS > maxFPSCap {
		maxFPS = defaultMaxFPS
	}

	sb := &StreamingBuffer{
		batchSize:     batchSize,
		maxFPS:        maxFPS,
		minFlushDelay: time.Second / time.Duration(maxFPS),
		now:           time.Now,
	}
	sb.lastFlush = sb.now()
	return sb
}

// Write adds a token to the buffer.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(token)
	sb.tokenCount++
	sb.trackLines(token)
}

// trackLines notes every fence line the token completes. Caller holds mu.
func (sb *StreamingBuffer) trackLines(token string) {
	for {
		i := strings.IndexByte(token, '\n')
		if i < 0 {
			break
		}
		if strings.HasPrefix(sb.lineHead+token[:i], segment.FenceToken) {
			sb.fenceDue = true
		}
		sb.lineHead = ""
		token = token[i+1:]
	}
	if need := len(segment.FenceToken) - len(sb.lineHead); need > 0 {
		sb.lineHead += token[:min(need, len(token))]
	}
}

// Flush returns the accumulated content if a flush is due.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.shouldFlushLocked() {
		return "", false
	}
	return sb.takeLocked(), true
}

// ForceFlush returns all buffered content regardless of thresholds.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.takeLocked(), true
}

// ShouldFlush reports whether a flush is due.
func (sb *StreamingBuffer) ShouldFlush() bool {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.shouldFlushLocked()
}

func (sb *StreamingBuffer) shouldFlushLocked() bool {
	if sb.buffer.Len() == 0 {
		return false
	}
	if sb.fenceDue || sb.tokenCount >= sb.batchSize {
		return true
	}
	return sb.now().Sub(sb.lastFlush) >= sb.minFlushDelay
}

// takeLocked drains the buffer. The partial line carries over.
func (sb *StreamingBuffer) takeLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.fenceDue = false
	sb.lastFlush = sb.now()
	return content
}

// Reset clears the buffer without flushing, ready for a new message.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lineHead = ""
	sb.fenceDue = false
	sb.lastFlush = sb.now()
}

// Pending returns the number of tokens waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

// GetConfig returns the current buffer configuration.
func (sb *StreamingBuffer) GetConfig() (batchSize, maxFPS int, minFlushDelay time.Duration) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.batchSize, sb.maxFPS, sb.minFlushDelay
}
