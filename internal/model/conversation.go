// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/fenceline/internal/segment"
)

// MaxMessages bounds the non-system history of a conversation. Older
// messages are dropped first.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered list of messages, at most one of which is
// still streaming.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	Messages []*Message `json:"messages" yaml:"messages"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        "conv_" + uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMessage appends msg. The first user message becomes the title when
// none is set.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	if c.Title == "" && msg.Role == RoleUser {
		c.Title = msg.Preview(50)
	}
	c.prune()
}

// AddUserMessage creates and adds a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// Streaming returns the message still receiving tokens, or nil.
func (c *Conversation) Streaming() *Message {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		return last
	}
	return nil
}

// AppendToLast appends a token to the streaming message, if any.
func (c *Conversation) AppendToLast(token string) {
	if msg := c.Streaming(); msg != nil {
		msg.AppendToken(token)
	}
}

// FinalizeLast ends the stream of the last message.
func (c *Conversation) FinalizeLast(stats *StreamStats) {
	if msg := c.Streaming(); msg != nil {
		msg.FinalizeStream(stats)
		c.UpdatedAt = time.Now()
	}
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "Transcript"
}

// prune drops the oldest non-system messages past MaxMessages.
func (c *Conversation) prune() {
	others := 0
	for _, msg := range c.Messages {
		if msg.Role != RoleSystem {
			others++
		}
	}
	drop := others - MaxMessages
	if drop <= 0 {
		return
	}

	kept := c.Messages[:0]
	for _, msg := range c.Messages {
		if msg.Role != RoleSystem && drop > 0 {
			drop--
			continue
		}
		kept = append(kept, msg)
	}
	c.Messages = kept
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

// BlockRef locates a code segment inside a conversation.
type BlockRef struct {
	MessageID string
	// Message is the index into Messages
	Message int
	Segment segment.Segment
}

// CodeBlocks re-segments every assistant message and returns its code
// segments in order.
func (c *Conversation) CodeBlocks() []BlockRef {
	var refs []BlockRef
	for i, msg := range c.Messages {
		if msg.Role != RoleAssistant {
			continue
		}
		for _, seg := range msg.CodeBlocks() {
			refs = append(refs, BlockRef{MessageID: msg.ID, Message: i, Segment: seg})
		}
	}
	return refs
}

// Summary counts what a conversation contains.
type Summary struct {
	Messages   int
	CodeBlocks int
	// OpenBlocks counts code blocks still waiting for a closing fence
	OpenBlocks int
	// Languages lists the distinct info strings, sorted
	Languages []string
}

// Summarize counts messages and code blocks.
func (c *Conversation) Summarize() Summary {
	s := Summary{Messages: len(c.Messages)}
	seen := make(map[string]bool)
	for _, ref := range c.CodeBlocks() {
		s.CodeBlocks++
		if !ref.Segment.IsComplete {
			s.OpenBlocks++
		}
		if lang := ref.Segment.Language; lang != "" && !seen[lang] {
			seen[lang] = true
			s.Languages = append(s.Languages, lang)
		}
	}
	sort.Strings(s.Languages)
	return s
}
