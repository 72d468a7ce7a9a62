// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for fenceline.
//
// # Themes
//
//   - dark, light: forced background, adaptive palette
//   - auto: background detected through termenv
//   - ascii: no colors, ASCII borders (also what pipes get)
//
// Each Theme owns a lipgloss renderer, so two themes can coexist in one
// process (the HTTP API renders without touching the terminal theme).
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	fmt.Println(theme.RenderWarning("code block never closed"))
package styles
