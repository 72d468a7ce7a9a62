// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/fenceline/internal/ui/styles"
	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// Markdown renders prose segments through glamour. Renderers are built
// lazily per wrap width.
type Markdown struct {
	theme *styles.Theme

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a markdown renderer for the theme.
func NewMarkdown(theme *styles.Theme) *Markdown {
	return &Markdown{
		theme:     theme,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders text wrapped at width. Surrounding whitespace is trimmed
// and blank text renders as "". If glamour fails the text is word-wrapped
// as-is.
func (m *Markdown) Render(text string, width int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.renderer(width)
	if err != nil {
		return util.WrapWidth(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		return util.WrapWidth(text, width)
	}
	return strings.Trim(out, "\n")
}

// renderer returns the cached renderer for width. Caller holds mu.
func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
