// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across fenceline.
//
// # Key Functions
//
// Display width (backed by go-runewidth):
//   - StringWidth, TruncateWidth, PadRight: column-aware measuring
//   - WrapWidth: word wrap by display width
//   - ExpandTabs: tab stops for code lines
//
// File Operations:
//   - WriteAtomic: stream into a temp file, fsync, rename
//   - AtomicWriteFile: WriteAtomic for a byte slice
//
// # Usage
//
//	line := util.TruncateWidth(util.ExpandTabs(code, 4), width)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
