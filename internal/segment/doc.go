// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
//
// The buffer is usually a model response that is still arriving token by
// token. Callers keep the accumulated text themselves and call Split with the
// whole buffer after every update; the package keeps no state between calls.
//
// # Line Model
//
// The buffer is split on "\n". A single trailing newline terminates the last
// line instead of opening an empty one, so "a\nb\n" has two lines. A line is a
// fence line when it starts with FenceToken (three backticks). Leading
// indentation disables the fence.
//
// # Key Types
//
//   - Segment: one text or code unit with its ordinal and line range
//   - CodeBlockRecord: diagnostic view of a code block (ExtractCodeBlocks)
//   - ValidationIssue: a detected problem (ValidateSyntax)
//
// # Rules
//
// The scanner is a two-state automaton (outside, inside). A fence line seen
// outside opens a block; the rest of that line is the language tag. A fence
// line seen inside always closes the current block. Nesting is not supported:
//
//	```js
//	```py      <- closes the js block
//	print(1)   <- text
//
// If the buffer ends inside a block, the final code segment has
// IsComplete == false. Only the last segment can be incomplete.
//
// Buffers that do not contain the fence token at all produce no segments;
// callers render the raw string in that case.
//
// # Usage
//
//	segs := segment.Split(buffer)
//	for _, seg := range segs {
//	    switch seg.Kind {
//	    case segment.KindText:
//	        renderMarkdown(seg.Key(), seg.Content)
//	    case segment.KindCode:
//	        renderCode(seg.Key(), seg.Language, seg.Content, seg.IsComplete)
//	    }
//	}
//
// Reconstruct inverts Split exactly, fences and trailing newline included.
package segment
