// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// ParseRole maps a transcript role name to a Role. Unknown names are
// treated as assistant output.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "human":
		return RoleUser
	case "system":
		return RoleSystem
	default:
		return RoleAssistant
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn of a conversation. While IsStreaming is set the text
// grows through AppendToken and Content stays empty; FinalizeStream moves
// the text into Content.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Content   string    `json:"content" yaml:"content"`

	IsStreaming bool            `json:"-" yaml:"-"`
	pending     strings.Builder // streamed text, merged into Content when done

	// Stats is set when a stream is finalized
	Stats *StreamStats `json:"stats,omitempty" yaml:"-"`
}

// NewMessage creates a finished message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewAssistantMessage creates an empty assistant message in streaming state.
func NewAssistantMessage() *Message {
	msg := NewMessage(RoleAssistant, "")
	msg.IsStreaming = true
	return msg
}

// AppendToken grows a streaming message. It is a no-op once the stream
// is finalized.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.pending.WriteString(token)
	}
}

// FinalizeStream ends the stream and records its statistics.
func (m *Message) FinalizeStream(stats *StreamStats) {
	if !m.IsStreaming {
		return
	}
	m.Content = m.pending.String()
	m.pending.Reset()
	m.IsStreaming = false
	m.Stats = stats
}

// GetDisplayContent returns the text so far, streaming or final.
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.pending.String()
	}
	return m.Content
}

// =============================================================================
// SEGMENTATION
// =============================================================================

// Segments re-segments the current text. Returns nil for plain prose.
func (m *Message) Segments() []segment.Segment {
	return segment.Split(m.GetDisplayContent())
}

// Issues validates the current text.
func (m *Message) Issues() []segment.ValidationIssue {
	return segment.ValidateSyntax(m.GetDisplayContent())
}

// HasOpenCodeBlock reports whether the text ends inside a code block.
func (m *Message) HasOpenCodeBlock() bool {
	return segment.HasIncompleteCodeBlock(m.GetDisplayContent())
}

// CodeBlocks returns the code segments of the current text.
func (m *Message) CodeBlocks() []segment.Segment {
	return segment.CodeSegments(m.Segments())
}

// Preview returns the text truncated to maxLen runes.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.GetDisplayContent(), maxLen)
}

// IsEmpty returns true if the message has no text yet.
func (m *Message) IsEmpty() bool {
	return m.Content == "" && m.pending.Len() == 0
}

// Clone returns a copy of the message, streamed text included.
func (m *Message) Clone() *Message {
	c := &Message{
		ID:          m.ID,
		Role:        m.Role,
		Timestamp:   m.Timestamp,
		Content:     m.Content,
		IsStreaming: m.IsStreaming,
	}
	c.pending.WriteString(m.pending.String())
	if m.Stats != nil {
		stats := *m.Stats
		c.Stats = &stats
	}
	return c
}

// FormatStats returns the stream statistics line, or "" when the message
// was not streamed.
func (m *Message) FormatStats() string {
	if m.Role != RoleAssistant || m.Stats == nil || m.Stats.Finished.IsZero() {
		return ""
	}
	return m.Stats.String()
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats records how a message was streamed and how often its buffer
// was handed back to the segmentation engine.
type StreamStats struct {
	Started    time.Time `json:"started"`
	FirstToken time.Time `json:"first_token"`
	Finished   time.Time `json:"finished"`

	Tokens int `json:"tokens"`
	// Flushes counts re-segmentations of the growing buffer
	Flushes int `json:"flushes"`
	// FirstFence is the delay until the first fence line appeared, zero
	// when the message has no code
	FirstFence time.Duration `json:"first_fence_ns,omitempty"`

	now func() time.Time
}

// NewStreamStats starts the clock.
func NewStreamStats() *StreamStats {
	s := &StreamStats{now: time.Now}
	s.Started = s.now()
	return s
}

func (s *StreamStats) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Token counts one token released by the producer.
func (s *StreamStats) Token() {
	if s.FirstToken.IsZero() {
		s.FirstToken = s.clock()
	}
	s.Tokens++
}

// Flush counts one re-segmentation of buffer.
func (s *StreamStats) Flush(buffer string) {
	s.Flushes++
	if s.FirstFence == 0 && hasFence(buffer) {
		s.FirstFence = s.clock().Sub(s.Started)
	}
}

// Finish stops the clock.
func (s *StreamStats) Finish() {
	s.Finished = s.clock()
}

// Duration is the time from start to finish.
func (s *StreamStats) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// TTFT is the time to the first token.
func (s *StreamStats) TTFT() time.Duration {
	if s.FirstToken.IsZero() {
		return 0
	}
	return s.FirstToken.Sub(s.Started)
}

// TokensPerSecond is the average token rate.
func (s *StreamStats) TokensPerSecond() float64 {
	if d := s.Duration(); d > 0 {
		return float64(s.Tokens) / d.Seconds()
	}
	return 0
}

// String renders "2.5s | 128 tokens | 51.2 tok/s | TTFT 234ms | 12 re-segmentations".
func (s *StreamStats) String() string {
	return fmt.Sprintf("%s | %s | %.1f tok/s | TTFT %dms | %s",
		formatDuration(s.Duration()),
		util.Plural(s.Tokens, "token"),
		s.TokensPerSecond(),
		s.TTFT().Milliseconds(),
		util.Plural(s.Flushes, "re-segmentation"))
}

// hasFence reports whether any line of buffer starts with the fence token.
func hasFence(buffer string) bool {
	return strings.HasPrefix(buffer, segment.FenceToken) ||
		strings.Contains(buffer, "\n"+segment.FenceToken)
}

// formatDuration formats a duration as "850ms" or "2.5s".
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
