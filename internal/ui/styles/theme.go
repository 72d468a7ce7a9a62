// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for fenceline.
package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
	ThemeASCII = "ascii"
)

// Theme holds all the styled components for rendering segments.
// Styles are built on a private renderer so a forced theme never changes
// the process-wide lipgloss defaults.
type Theme struct {
	// Name is the resolved theme: dark, light or ascii
	Name string

	// Terminal capabilities
	IsDark       bool
	Plain        bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// SEGMENT STYLES
	// ==========================================================================

	Text            lipgloss.Style
	CodeFrame       lipgloss.Style
	CodeHeader      lipgloss.Style
	LanguageBadge   lipgloss.Style
	LineNumber      lipgloss.Style
	StreamingMarker lipgloss.Style
	CompleteMarker  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewTheme creates a theme writing to stdout. Unknown names fall back to auto.
func NewTheme(name string) *Theme {
	return NewThemeFor(os.Stdout, name)
}

// NewThemeFor creates a theme for the given output. "auto" asks the terminal
// for its background; "ascii" disables colors and uses ASCII borders.
func NewThemeFor(w io.Writer, name string) *Theme {
	r := lipgloss.NewRenderer(w)

	t := &Theme{renderer: r}
	switch strings.ToLower(name) {
	case ThemeDark:
		t.Name, t.IsDark = ThemeDark, true
	case ThemeLight:
		t.Name, t.IsDark = ThemeLight, false
	case ThemeASCII:
		t.Name, t.IsDark, t.Plain = ThemeASCII, true, true
	default:
		t.IsDark = termenv.NewOutput(w).HasDarkBackground()
		t.Name = ThemeLight
		if t.IsDark {
			t.Name = ThemeDark
		}
	}

	r.SetHasDarkBackground(t.IsDark)
	if t.Plain {
		r.SetColorProfile(termenv.Ascii)
	}
	t.ColorProfile = r.ColorProfile()

	t.initStyles()
	return t
}

// NewStyle returns an empty style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

// border returns the border for framed elements.
func (t *Theme) border() lipgloss.Border {
	if t.Plain {
		return lipgloss.ASCIIBorder()
	}
	return lipgloss.RoundedBorder()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.NewStyle

	t.Text = s().Foreground(TextPrimary)

	// Code segments
	t.CodeFrame = s().BorderStyle(t.border()).BorderForeground(CodeFrame).Padding(0, 1)
	t.CodeHeader = s().Foreground(TextSecondary)
	t.LanguageBadge = s().Bold(true).Foreground(BadgeText).Background(BadgeBackground).Padding(0, 1)
	t.LineNumber = s().Foreground(TextMuted)
	t.StreamingMarker = s().Foreground(Streaming).Italic(true)
	t.CompleteMarker = s().Foreground(Settled)

	// Messages
	t.UserBubble = s().BorderStyle(t.border()).Padding(0, 1).
		Foreground(UserBubbleFg).BorderForeground(UserBubbleBorder)
	t.AssistantBubble = s().BorderStyle(t.border()).Padding(0, 1).
		Foreground(AssistantBubbleFg).BorderForeground(AssistantBubbleBorder)
	t.RoleLabel = s().Bold(true).Foreground(RoleLabel)
	t.Timestamp = s().Foreground(TextMuted)

	// Chrome
	t.Header = s().Bold(true).Foreground(Title).Padding(0, 1)
	t.Footer = s().Foreground(TextSecondary).Background(Chrome).Padding(0, 1)

	t.Muted = s().Foreground(TextMuted)
	t.Success = s().Foreground(SuccessHighContrast).Bold(true)
	t.Error = s().Foreground(ErrorHighContrast).Bold(true)
	t.Warning = s().Foreground(WarningHighContrast).Bold(true)
	t.Info = s().Foreground(InfoHighContrast)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GlamourStyle returns the glamour standard style name matching the theme.
func (t *Theme) GlamourStyle() string {
	switch {
	case t.Plain:
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}

// ChromaFormatter returns the chroma formatter name for the color profile.
func (t *Theme) ChromaFormatter() string {
	switch t.ColorProfile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return "noop"
	}
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders a success message with its text indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.Success.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its text indicator.
func (t *Theme) RenderError(message string) string {
	return t.Error.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its text indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.Warning.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with its text indicator.
func (t *Theme) RenderInfo(message string) string {
	return t.Info.Render(StatusIndicators.Info + " " + message)
}
