// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/fenceline/internal/model"
	"github.com/jeranaias/fenceline/internal/ui/styles"
)

// =============================================================================
// CHAT VIEWPORT COMPONENT
// =============================================================================

// ChatViewport is a scrollable message list that follows the bottom while
// content streams in, until the user scrolls away.
type ChatViewport struct {
	viewport    viewport.Model
	width       int
	height      int
	ready       bool
	autoScroll  bool
	theme       *styles.Theme
	messageList *MessageList
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme, opts SegmentOptions) *ChatViewport {
	vp := viewport.New(80, 20)
	vp.Style = theme.NewStyle()

	return &ChatViewport{
		viewport:    vp,
		width:       80,
		height:      20,
		autoScroll:  true,
		theme:       theme,
		messageList: NewMessageList(theme, opts),
	}
}

// SetSize updates the viewport dimensions. One line is reserved for the
// scroll indicator.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = height
	cv.viewport.Width = width
	cv.viewport.Height = max(height-1, 1)
	cv.messageList.SetWidth(width - 2)
	cv.ready = true
	cv.Refresh()
}

// SetMessages updates the messages to display.
func (cv *ChatViewport) SetMessages(messages []*model.Message) {
	cv.messageList.SetMessages(messages)
	cv.Refresh()
}

// MessageList exposes the list so callers can reach per-message renderers.
func (cv *ChatViewport) MessageList() *MessageList {
	return cv.messageList
}

// ToggleLineNumbers flips line numbers on code blocks and redraws. It
// returns the new setting.
func (cv *ChatViewport) ToggleLineNumbers() bool {
	opts := cv.messageList.Options
	opts.ShowLineNumbers = !opts.ShowLineNumbers
	cv.messageList.SetOptions(opts)
	cv.Refresh()
	return opts.ShowLineNumbers
}

// Refresh re-renders the content, for example after a streaming flush.
func (cv *ChatViewport) Refresh() {
	cv.viewport.SetContent(cv.messageList.View())
	if cv.autoScroll {
		cv.viewport.GotoBottom()
	}
}

// ScrollToBottom scrolls to the bottom and resumes following.
func (cv *ChatViewport) ScrollToBottom() {
	cv.viewport.GotoBottom()
	cv.autoScroll = true
}

// ScrollToTop scrolls to the top and stops following.
func (cv *ChatViewport) ScrollToTop() {
	cv.viewport.GotoTop()
	cv.autoScroll = false
}

// AtBottom reports whether the viewport shows the last line.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// AutoScroll reports whether the viewport follows new content.
func (cv *ChatViewport) AutoScroll() bool {
	return cv.autoScroll
}

// Update handles scrolling keys and mouse wheel events.
func (cv *ChatViewport) Update(msg tea.Msg) (*ChatViewport, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "home", "g":
			cv.ScrollToTop()
			return cv, nil
		case "end", "G":
			cv.ScrollToBottom()
			return cv, nil
		}
	}

	var cmd tea.Cmd
	cv.viewport, cmd = cv.viewport.Update(msg)
	cv.autoScroll = cv.viewport.AtBottom()
	return cv, cmd
}

// View renders the viewport with a scroll indicator line.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}
	return cv.viewport.View() + "\n" + cv.renderIndicator()
}

// renderIndicator renders the "more below" hint with the scroll position.
func (cv *ChatViewport) renderIndicator() string {
	if cv.viewport.AtBottom() {
		return ""
	}
	pos := fmt.Sprintf("%3.0f%%", cv.viewport.ScrollPercent()*100)
	return cv.theme.Muted.Render("v scroll down for more " + pos)
}
