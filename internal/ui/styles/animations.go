// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for fenceline.
package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// STREAMING SPINNERS
// =============================================================================

// SpinnerConfig holds the frames of a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// LineSpinner is used by the ascii theme.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// BrailleSpinner is shown while a response streams.
var BrailleSpinner = SpinnerConfig{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    12,
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Bubbles converts the config for use with a bubbles spinner.Model.
func (s SpinnerConfig) Bubbles() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}

// Spinner returns the streaming spinner that suits the theme.
func (t *Theme) Spinner() SpinnerConfig {
	if t.Plain {
		return LineSpinner
	}
	return BrailleSpinner
}

// =============================================================================
// STREAM PROGRESS
// =============================================================================

var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+"}
)

// RenderProgressBar draws a bar width columns wide that is percent (0-100)
// full. Fractional cells use ProgressPartial.
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))

	filled := float64(width) * percent / 100
	full := int(filled)
	partial := int((filled - float64(full)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width)
	sb.WriteString(strings.Repeat(ProgressFull, full))
	if full < width && partial > 0 {
		sb.WriteString(ProgressPartial[partial-1])
		full++
	}
	if full < width {
		sb.WriteString(strings.Repeat(ProgressEmpty, width-full))
	}
	return sb.String()
}

// RenderStreamProgress draws the bar for emitted of total tokens followed by
// the counts. An empty stream counts as finished.
func RenderStreamProgress(width, emitted, total int) string {
	pct := 100.0
	if total > 0 {
		pct = float64(emitted) / float64(total) * 100
	}
	return fmt.Sprintf("%s %d/%d", RenderProgressBar(width, pct), emitted, total)
}
