// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"strings"
	"sync"

	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/styles"
	"github.com/jeranaias/fenceline/internal/util"
)

// =============================================================================
// SEGMENT RENDERER
// =============================================================================

// SegmentOptions configures a SegmentRenderer.
type SegmentOptions struct {
	Width           int
	ShowLineNumbers bool
	CodeStyle       string
}

// cachedSegment is the last rendered form of one segment key.
type cachedSegment struct {
	kind     segment.Kind
	language string
	content  string
	complete bool
	width    int
	output   string
}

// matches reports whether seg renders to the cached output.
func (c cachedSegment) matches(seg segment.Segment, width int) bool {
	return c.kind == seg.Kind &&
		c.language == seg.Language &&
		c.content == seg.Content &&
		c.complete == seg.IsComplete &&
		c.width == width
}

// SegmentRenderer renders a segmentation, dispatching each segment to the
// markdown or code block renderer. Output is cached per segment key, so a
// segment whose content, language and completeness are unchanged is never
// rendered twice. One renderer serves one message.
type SegmentRenderer struct {
	theme    *styles.Theme
	markdown *Markdown
	opts     SegmentOptions

	mu        sync.Mutex
	cache     map[string]cachedSegment
	overrides map[string]string
	renders   int
}

// NewSegmentRenderer creates a renderer. Zero options get defaults.
func NewSegmentRenderer(theme *styles.Theme, opts SegmentOptions) *SegmentRenderer {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.CodeStyle == "" {
		opts.CodeStyle = DefaultCodeStyle
	}
	return &SegmentRenderer{
		theme:     theme,
		markdown:  NewMarkdown(theme),
		opts:      opts,
		cache:     make(map[string]cachedSegment),
		overrides: make(map[string]string),
	}
}

// SetWidth changes the render width. Cached entries for other widths are
// re-rendered on next use.
func (r *SegmentRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width > 0 {
		r.opts.Width = width
	}
}

// RenderSegment renders one segment, reusing the cached output when the
// segment is unchanged.
func (r *SegmentRenderer) RenderSegment(seg segment.Segment) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(seg)
}

// Render renders a segmentation in order, one segment per block. Cache
// entries for keys no longer present are dropped.
func (r *SegmentRenderer) Render(segs []segment.Segment) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make(map[string]bool, len(segs))
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		live[seg.Key()] = true
		if out := r.renderLocked(seg); out != "" {
			parts = append(parts, out)
		}
	}
	for key := range r.cache {
		if !live[key] {
			delete(r.cache, key)
		}
	}
	return strings.Join(parts, "\n")
}

// RenderBuffer segments buffer and renders it. A buffer without fences is
// rendered as a single prose block.
func (r *SegmentRenderer) RenderBuffer(buffer string) string {
	segs := segment.Split(buffer)
	if segs == nil {
		return r.Render([]segment.Segment{{
			Kind:       segment.KindText,
			Content:    buffer,
			IsComplete: true,
		}})
	}
	return r.Render(segs)
}

// SetOverride replaces the rendered form of key with raw text until
// ClearOverride is called. Reveal animations use it to show frames.
func (r *SegmentRenderer) SetOverride(key, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = text
}

// ClearOverride removes the override for key.
func (r *SegmentRenderer) ClearOverride(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, key)
}

// Renders returns how many times a segment was actually rendered, cache
// hits excluded.
func (r *SegmentRenderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// Reset drops every cached entry and override.
func (r *SegmentRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]cachedSegment)
	r.overrides = make(map[string]string)
}

func (r *SegmentRenderer) renderLocked(seg segment.Segment) string {
	key := seg.Key()
	if text, ok := r.overrides[key]; ok {
		return r.theme.Text.Render(util.WrapWidth(text, r.opts.Width))
	}

	if c, ok := r.cache[key]; ok && c.matches(seg, r.opts.Width) {
		return c.output
	}

	var out string
	if seg.IsCode() {
		block := CodeBlockFromSegment(r.theme, seg)
		block.SetMaxWidth(r.opts.Width)
		block.ShowLineNumbers = r.opts.ShowLineNumbers
		block.Style = r.opts.CodeStyle
		out = block.Render()
	} else {
		out = r.markdown.Render(seg.Content, r.opts.Width)
	}
	r.renders++

	r.cache[key] = cachedSegment{
		kind:     seg.Kind,
		language: seg.Language,
		content:  seg.Content,
		complete: seg.IsComplete,
		width:    r.opts.Width,
		output:   out,
	}
	return out
}
