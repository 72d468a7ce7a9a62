// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the transcript replay viewer.

The viewer replays a recorded transcript as if it were streaming: assistant
messages are split into tokens (Tokenize), released on a clock, and batched
by a StreamingBuffer. Every flush appends to the message and re-segments the
whole buffer, so an open code fence shows up as an incomplete block with a
"streaming..." marker until its closing fence arrives.

# Key Components

	Model (replay.go)            - Bubble Tea model: header, viewport, footer
	StreamingBuffer (streaming.go) - batch size and frame rate limited flushes
	KeyMap (keys.go)             - pause, skip, scroll, help, quit

The footer shows the segment count, whether the fences balance, and replay
progress. When a reveal controller is configured, each prose segment plays
its scramble animation once it has settled; revealed keys are remembered by
the controller's store.
*/
package chat
