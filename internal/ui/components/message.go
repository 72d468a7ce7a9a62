// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/fenceline/internal/model"
	"github.com/jeranaias/fenceline/internal/ui/styles"
)

// bubbleChrome is the horizontal space taken by a bubble's border and padding.
const bubbleChrome = 4

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message. Assistant content is segmented and
// each segment rendered through the bubble's SegmentRenderer; user and
// system content is rendered as prose.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowStats     bool

	renderer *SegmentRenderer
	theme    *styles.Theme
}

// NewMessageBubble creates a bubble. renderer may be nil, in which case a
// private one is created; pass a shared renderer to keep its cache across
// frames.
func NewMessageBubble(msg *model.Message, theme *styles.Theme, renderer *SegmentRenderer) *MessageBubble {
	if msg == nil {
		msg = model.NewSystemMessage("")
	}
	if renderer == nil {
		renderer = NewSegmentRenderer(theme, SegmentOptions{})
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowStats:     true,
		renderer:      renderer,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
	b.renderer.SetWidth(b.contentWidth())
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	t := b.theme

	header := t.RoleLabel.Render(strings.ToLower(b.Message.Role.DisplayName()))
	if b.ShowTimestamp {
		if ts := formatTimestamp(b.Message.Timestamp, time.Now()); ts != "" {
			header += " " + t.Timestamp.Render(ts)
		}
	}

	bubble := b.bubbleStyle().Render(b.body())
	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)

	if b.ShowStats && !b.Message.IsStreaming {
		if stats := b.Message.FormatStats(); stats != "" {
			result = lipgloss.JoinVertical(lipgloss.Left, result, t.Muted.Render(stats))
		}
	}
	return result
}

// body renders the message content.
func (b *MessageBubble) body() string {
	content := b.Message.GetDisplayContent()
	if strings.TrimSpace(content) == "" {
		return b.theme.Muted.Render("...")
	}
	if b.Message.Role != model.RoleAssistant {
		return b.renderer.markdown.Render(content, b.contentWidth())
	}

	out := b.renderer.RenderBuffer(content)
	if b.Message.IsStreaming {
		out += b.theme.StreamingMarker.Render("_")
	}
	return out
}

func (b *MessageBubble) bubbleStyle() lipgloss.Style {
	switch b.Message.Role {
	case model.RoleUser:
		return b.theme.UserBubble
	case model.RoleSystem:
		return b.theme.Muted
	default:
		return b.theme.AssistantBubble
	}
}

func (b *MessageBubble) contentWidth() int {
	if w := b.Width - bubbleChrome; w > 20 {
		return w
	}
	return 20
}

// formatTimestamp renders "3:04 PM" for today and "Jan 5, 3:04 PM" otherwise.
func formatTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("3:04 PM")
	}
	return ts.Format("Jan 2, 3:04 PM")
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a conversation. It keeps one SegmentRenderer per
// message ID so cached segment output survives repeated renders.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowStats      bool
	Options        SegmentOptions

	renderers map[string]*SegmentRenderer
	theme     *styles.Theme
}

// NewMessageList creates a new MessageList.
func NewMessageList(theme *styles.Theme, opts SegmentOptions) *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		ShowStats:      true,
		Options:        opts,
		renderers:      make(map[string]*SegmentRenderer),
		theme:          theme,
	}
}

// SetMessages sets the messages to display. Renderers of messages that
// are gone are released.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
	live := make(map[string]bool, len(messages))
	for _, m := range messages {
		live[m.ID] = true
	}
	for id := range ml.renderers {
		if !live[id] {
			delete(ml.renderers, id)
		}
	}
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// SetOptions changes how segments are drawn. Cached renderers are dropped
// so every segment is drawn again with the new options.
func (ml *MessageList) SetOptions(opts SegmentOptions) {
	ml.Options = opts
	ml.renderers = make(map[string]*SegmentRenderer)
}

// Renderer returns the segment renderer for a message, creating it on
// first use.
func (ml *MessageList) Renderer(id string) *SegmentRenderer {
	r, ok := ml.renderers[id]
	if !ok {
		r = NewSegmentRenderer(ml.theme, ml.Options)
		ml.renderers[id] = r
	}
	return r
}

// View renders all messages separated by a blank line.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		return ml.theme.Muted.Render("No messages.")
	}

	bubbles := make([]string, 0, len(ml.Messages))
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme, ml.Renderer(msg.ID))
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowStats = ml.ShowStats
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n\n")
}
