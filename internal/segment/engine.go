// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
package segment

import (
	"strings"
)

// =============================================================================
// LINE SCANNING
// =============================================================================

// splitLines splits buffer into lines. A trailing "\n" terminates the last
// line instead of starting an empty one.
func splitLines(buffer string) (lines []string, trailingNewline bool) {
	if buffer == "" {
		return nil, false
	}
	if strings.HasSuffix(buffer, "\n") {
		trailingNewline = true
		buffer = buffer[:len(buffer)-1]
	}
	return strings.Split(buffer, "\n"), trailingNewline
}

// isFence reports whether line opens or closes a code block.
func isFence(line string) bool {
	return strings.HasPrefix(line, FenceToken)
}

// fenceLanguage returns the language tag carried by an opening fence line.
func fenceLanguage(line string) string {
	language := strings.TrimSpace(strings.TrimPrefix(line, FenceToken))
	if language == "" {
		return DefaultLanguage
	}
	return language
}

// =============================================================================
// SPLIT
// =============================================================================

// Split segments buffer into text and code segments in reading order.
//
// The whole buffer is rescanned on every call. Returns nil when the buffer
// does not contain the fence token.
func Split(buffer string) []Segment {
	if !strings.Contains(buffer, FenceToken) {
		return nil
	}

	lines, trailingNewline := splitLines(buffer)
	s := newSplitter(lines)

	for i, line := range lines {
		if !isFence(line) {
			continue
		}
		if s.inCode {
			s.closeBlock(i)
		} else {
			s.openBlock(i)
		}
	}
	s.finish()

	if n := len(s.segments); n > 0 && trailingNewline {
		s.segments[n-1].TrailingNewline = true
	}
	return s.segments
}

// splitter holds the automaton state for a single Split call.
type splitter struct {
	lines   []string
	offsets []int

	segments  []Segment
	lastIndex int // first line not yet emitted
	inCode    bool
	fenceLine int // line index of the open fence
	language  string
	codeCount int
}

func newSplitter(lines []string) *splitter {
	offsets := make([]int, len(lines)+1)
	for i, line := range lines {
		offsets[i+1] = offsets[i] + len(line) + 1
	}
	return &splitter{
		lines:   lines,
		offsets: offsets,
	}
}

func (s *splitter) openBlock(i int) {
	if i > s.lastIndex {
		s.emitText(s.lastIndex, i)
	}
	s.language = fenceLanguage(s.lines[i])
	s.fenceLine = i
	s.inCode = true
	s.lastIndex = i + 1
}

func (s *splitter) closeBlock(i int) {
	s.emitCode(i, true)
	s.inCode = false
	s.lastIndex = i + 1
}

func (s *splitter) finish() {
	if s.inCode {
		s.emitCode(len(s.lines), false)
		return
	}
	if s.lastIndex < len(s.lines) {
		s.emitText(s.lastIndex, len(s.lines))
	}
}

func (s *splitter) emitText(start, end int) {
	s.segments = append(s.segments, Segment{
		Kind:       KindText,
		Content:    strings.Join(s.lines[start:end], "\n"),
		IsComplete: true,
		Ordinal:    len(s.segments),
		StartLine:  start,
		EndLine:    end,
		Offset:     s.offsets[start],
	})
}

// emitCode emits the open block. end is the closing fence line, or the line
// count when the buffer ran out first.
func (s *splitter) emitCode(end int, complete bool) {
	seg := Segment{
		Kind:        KindCode,
		Content:     strings.Join(s.lines[s.fenceLine+1:end], "\n"),
		Language:    s.language,
		CodeOrdinal: s.codeCount,
		IsComplete:  complete,
		Ordinal:     len(s.segments),
		StartLine:   s.fenceLine,
		EndLine:     end,
		Offset:      s.offsets[s.fenceLine],
		Fence:       s.lines[s.fenceLine],
	}
	if complete {
		seg.EndLine = end + 1
		seg.CloseFence = s.lines[end]
	}
	s.segments = append(s.segments, seg)
	s.codeCount++
}

// =============================================================================
// RECONSTRUCT
// =============================================================================

// Reconstruct rebuilds the buffer a segmentation was produced from.
// Reconstruct(Split(b)) == b for every b that contains the fence token.
func Reconstruct(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}

	var lines []string
	for _, seg := range segments {
		lines = append(lines, seg.Lines()...)
	}

	out := strings.Join(lines, "\n")
	if segments[len(segments)-1].TrailingNewline {
		out += "\n"
	}
	return out
}
