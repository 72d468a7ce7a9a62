// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders segments, messages and transcripts.

# Rendering Pipeline

A message buffer is segmented with segment.Split and each segment is
dispatched by kind:

	Markdown (markdown.go)     - prose through glamour, blank text skipped
	CodeBlock (codeblock.go)   - chroma highlighting, line numbers, badge
	SegmentRenderer (segments.go) - dispatch plus a per-key output cache

A code segment without its closing fence is drawn with a "streaming..."
marker. Once it completes, and as long as its content does not change, the
cached output is reused on every later frame.

# Composition

MessageBubble (message.go) frames one message; MessageList keeps one
SegmentRenderer per message ID; ChatViewport (viewport.go) scrolls the list
with the bubbles viewport.

	theme := styles.NewTheme("auto")
	r := components.NewSegmentRenderer(theme, components.SegmentOptions{Width: 80})
	fmt.Println(r.RenderBuffer(buffer))
*/
package components
