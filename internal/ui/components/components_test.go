// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/fenceline/internal/model"
	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/styles"
)

// plainTheme renders without escape codes so output can be matched.
func plainTheme() *styles.Theme {
	return styles.NewThemeFor(&bytes.Buffer{}, styles.ThemeASCII)
}

// =============================================================================
// CODE BLOCK TESTS
// =============================================================================

func TestHighlightCode_NoopKeepsLines(t *testing.T) {
	tests := []string{
		"x := 1",
		"a\nb\nc",
		"",
		"trailing\n",
	}
	for _, code := range tests {
		got := highlightCode(code, "go", DefaultCodeStyle, "noop")
		if got != code {
			t.Errorf("highlightCode(%q) = %q", code, got)
		}
	}
}

func TestHighlightCode_UnknownStyleAndLanguage(t *testing.T) {
	got := highlightCode("print(1)", "js console.log(1)", "no-such-style", "noop")
	assert.Equal(t, "print(1)", got)
}

func TestCodeBlock_RenderComplete(t *testing.T) {
	block := NewCodeBlock(plainTheme(), "go", "x := 1\ny := 2")
	out := block.Render()

	assert.Contains(t, out, "go")
	assert.Contains(t, out, styles.StatusIndicators.Success)
	assert.Contains(t, out, "1 x := 1")
	assert.Contains(t, out, "2 y := 2")
	assert.NotContains(t, out, streamingLabel)
}

func TestCodeBlock_RenderStreaming(t *testing.T) {
	seg := segment.Split("```py\nprint(1)\n")[0]
	block := CodeBlockFromSegment(plainTheme(), seg)
	out := block.Render()

	assert.Contains(t, out, streamingLabel)
	assert.Contains(t, out, "print(1)")
}

func TestCodeBlock_NoLineNumbersKeepsIndent(t *testing.T) {
	block := NewCodeBlock(plainTheme(), "py", "def f():\n\treturn 1")
	block.ShowLineNumbers = false
	out := block.Render()

	assert.Contains(t, out, "def f():")
	assert.Contains(t, out, "    return 1")
	assert.NotContains(t, out, "1 def")
}

func TestDetectLanguage_Shebang(t *testing.T) {
	assert.Equal(t, "bash", DetectLanguage("#!/bin/bash\necho hi"))
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdown_BlankIsSkipped(t *testing.T) {
	md := NewMarkdown(plainTheme())
	assert.Equal(t, "", md.Render("", 40))
	assert.Equal(t, "", md.Render(" \n\t\n", 40))
}

func TestMarkdown_RendersProse(t *testing.T) {
	md := NewMarkdown(plainTheme())
	out := md.Render("\nhello **world**\n\n", 40)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

// =============================================================================
// SEGMENT RENDERER TESTS
// =============================================================================

func TestSegmentRenderer_CachesCompleteSegments(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{Width: 60})

	buffer := "intro\n```go\nx := 1\n```\n"
	first := r.RenderBuffer(buffer)
	rendersAfterFirst := r.Renders()
	require.Equal(t, 2, rendersAfterFirst)

	second := r.RenderBuffer(buffer)
	assert.Equal(t, first, second)
	assert.Equal(t, rendersAfterFirst, r.Renders(), "unchanged segments must not re-render")

	// Growing the buffer only renders the new trailing segment.
	r.RenderBuffer(buffer + "more text")
	assert.Equal(t, rendersAfterFirst+1, r.Renders())
}

func TestSegmentRenderer_StreamingBlockRerendersUntilComplete(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{Width: 60})

	r.RenderBuffer("```go\nx")
	r.RenderBuffer("```go\nx := 1")
	assert.Equal(t, 2, r.Renders())

	out := r.RenderBuffer("```go\nx := 1\n```")
	assert.Equal(t, 3, r.Renders())
	assert.NotContains(t, out, streamingLabel)

	r.RenderBuffer("```go\nx := 1\n```")
	assert.Equal(t, 3, r.Renders())
}

func TestSegmentRenderer_PlainBuffer(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{})
	out := r.RenderBuffer("no fences here")
	assert.Contains(t, out, "no fences here")
}

func TestSegmentRenderer_WidthChangeRerenders(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{Width: 60})
	r.RenderBuffer("```sh\necho\n```")
	r.SetWidth(40)
	r.RenderBuffer("```sh\necho\n```")
	assert.Equal(t, 2, r.Renders())
}

func TestSegmentRenderer_Override(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{Width: 60})
	segs := segment.Split("hello\n```go\nx\n```")

	r.SetOverride("text-0", "h#l!o")
	out := r.Render(segs)
	assert.Contains(t, out, "h#l!o")

	r.ClearOverride("text-0")
	out = r.Render(segs)
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "h#l!o")
}

func TestSegmentRenderer_DropsStaleKeys(t *testing.T) {
	r := NewSegmentRenderer(plainTheme(), SegmentOptions{Width: 60})
	r.RenderBuffer("a\n```x\n1\n```\nb")
	require.Len(t, r.cache, 3)

	r.RenderBuffer("```x\n1\n```")
	assert.Len(t, r.cache, 1)

	r.Reset()
	assert.Empty(t, r.cache)
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageBubble_AssistantSegments(t *testing.T) {
	msg := model.NewMessage(model.RoleAssistant, "Here:\n```go\nfmt.Println(1)\n```")
	b := NewMessageBubble(msg, plainTheme(), nil)
	b.SetWidth(70)
	out := b.View()

	assert.Contains(t, out, "assistant")
	assert.Contains(t, out, "Here:")
	assert.Contains(t, out, "fmt.Println(1)")
}

func TestMessageBubble_StreamingCursor(t *testing.T) {
	msg := model.NewAssistantMessage()
	msg.AppendToken("```go\nx")
	out := NewMessageBubble(msg, plainTheme(), nil).View()

	assert.Contains(t, out, streamingLabel)
	assert.Contains(t, out, "_")
}

func TestMessageBubble_EmptyAndNil(t *testing.T) {
	out := NewMessageBubble(model.NewAssistantMessage(), plainTheme(), nil).View()
	assert.Contains(t, out, "...")

	assert.NotPanics(t, func() {
		NewMessageBubble(nil, plainTheme(), nil).View()
	})
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "", formatTimestamp(time.Time{}, now))
	assert.Equal(t, "3:04 PM", formatTimestamp(now, now))
	assert.Equal(t, "Jan 5, 9:30 AM", formatTimestamp(time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC), now))
}

func TestMessageList_RendererPerMessage(t *testing.T) {
	ml := NewMessageList(plainTheme(), SegmentOptions{Width: 60})
	assert.Contains(t, ml.View(), "No messages.")

	a := model.NewUserMessage("question")
	b := model.NewMessage(model.RoleAssistant, "```sh\nls\n```")
	ml.SetMessages([]*model.Message{a, b})
	out := ml.View()
	assert.Contains(t, out, "question")
	assert.Contains(t, out, "ls")

	rb := ml.Renderer(b.ID)
	before := rb.Renders()
	ml.View()
	assert.Equal(t, before, rb.Renders())

	ml.SetMessages([]*model.Message{a})
	assert.Len(t, ml.renderers, 1)
}

// =============================================================================
// VIEWPORT TESTS
// =============================================================================

func TestChatViewport_FollowsBottom(t *testing.T) {
	cv := NewChatViewport(plainTheme(), SegmentOptions{})
	assert.Equal(t, "", cv.View())

	cv.SetSize(60, 5)
	var msgs []*model.Message
	for i := 0; i < 10; i++ {
		msgs = append(msgs, model.NewUserMessage("line"))
	}
	cv.SetMessages(msgs)
	assert.True(t, cv.AtBottom())
	assert.True(t, cv.AutoScroll())

	cv.ScrollToTop()
	assert.False(t, cv.AutoScroll())
	assert.Contains(t, cv.View(), "scroll down for more")

	cv.ScrollToBottom()
	assert.True(t, cv.AtBottom())
}

func TestChatViewport_ToggleLineNumbers(t *testing.T) {
	cv := NewChatViewport(plainTheme(), SegmentOptions{Width: 60})
	cv.SetSize(60, 20)
	msg := model.NewMessage(model.RoleAssistant, "```sh\nls\npwd\n```")
	cv.SetMessages([]*model.Message{msg})
	assert.NotContains(t, cv.View(), "2 pwd")

	first := cv.MessageList().Renderer(msg.ID)
	assert.True(t, cv.ToggleLineNumbers())
	assert.Contains(t, cv.View(), "2 pwd")
	assert.NotSame(t, first, cv.MessageList().Renderer(msg.ID), "renderers are rebuilt")

	assert.False(t, cv.ToggleLineNumbers())
	assert.NotContains(t, cv.View(), "2 pwd")
}
