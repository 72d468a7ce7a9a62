// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for fenceline.
// Colors use Lip Gloss AdaptiveColor so one palette serves dark and light
// terminals.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// SEGMENT COLORS
// =============================================================================

var (
	// CodeFrame borders every code segment
	CodeFrame = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	// BadgeBackground sits behind the language tag
	BadgeBackground = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	// BadgeText is drawn on BadgeBackground
	BadgeText = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
	// Settled marks a code block whose closing fence has arrived
	Settled = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	// Streaming marks the block still waiting for its closing fence
	Streaming = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
)

// =============================================================================
// TEXT AND CHROME
// =============================================================================

var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	// TextMuted is used for hints, line numbers and timestamps
	TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
	// Chrome is the header and footer background
	Chrome = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
	// Title is the transcript title in the header
	Title = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
)

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

var (
	UserBubbleFg          = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
	UserBubbleBorder      = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}
	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#5B4B8A", Dark: "#E9E4F5"}
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#A78BFA"}
	// RoleLabel colors the role name above a bubble
	RoleLabel = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
)

// =============================================================================
// STATUS
// =============================================================================

// StatusIndicatorSet holds text markers for status states so meaning never
// depends on color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII-only so they survive any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// High contrast status colors
var (
	SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	ErrorHighContrast   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	InfoHighContrast    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)
