// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
//
// Commands are built with cobra. Every command reads from cmd.InOrStdin and
// writes to cmd.OutOrStdout so tests can drive the full command tree.
//
// # Commands Overview
//
// Inspection:
//   - segment: Print the segmentation of a buffer
//   - validate: Report a dangling fence (exit 1 when found)
//   - blocks: Print extracted code block records
//   - crosscheck: Compare code blocks against a CommonMark parse
//
// Live views:
//   - watch: Re-segment a file on every write
//   - repl: Build a buffer line by line and watch it re-segment
//   - replay: Stream a transcript through the terminal viewer
//
// Services:
//   - serve: Run the HTTP diagnostics API
//   - run: Send a code block to the execution endpoint
//
// Housekeeping:
//   - config: Show, get and set configuration values
//   - version: Print version information
//
// Inspection commands accept a FILE argument or "-" for stdin and support
// --format text|json|yaml. Colors are disabled when stdout is not a
// terminal or NO_COLOR is set.
package cli
