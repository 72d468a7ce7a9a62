// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/fenceline/internal/ui/styles"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for rendering
	MinTerminalWidth = 40
)

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// isTerminal reports whether v, a reader or writer, is a terminal.
func isTerminal(v any) bool {
	f, ok := v.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or DefaultTerminalWidth when w is
// not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(fdWriter)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// colorsEnabled decides whether output to w is styled. NO_COLOR and the
// --no-color flag disable colors; FORCE_COLOR enables them off a terminal.
// See https://no-color.org/.
func colorsEnabled(w io.Writer, noColorFlag bool) bool {
	switch {
	case noColorFlag, os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	default:
		return isTerminal(w)
	}
}

// themeFor builds the rendering theme for w. Unstyled output always gets
// the ascii theme so pipes receive plain text.
func themeFor(w io.Writer, name string, colors bool) *styles.Theme {
	if !colors {
		name = styles.ThemeASCII
	}
	return styles.NewThemeFor(w, name)
}
