// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
package segment

import (
	"strconv"
	"strings"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// FenceToken opens and closes a code block when it starts a line.
	FenceToken = "```"

	// DefaultLanguage is used when an opening fence carries no language tag.
	DefaultLanguage = "code"
)

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind identifies the type of a segment.
type Kind string

const (
	KindText Kind = "text"
	KindCode Kind = "code"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Segment is one contiguous unit of a segmented buffer.
type Segment struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`

	// Code only
	Language    string `json:"language,omitempty"`
	CodeOrdinal int    `json:"code_ordinal"`

	// IsComplete is false only for a code segment whose closing fence has not
	// arrived yet. Text segments are always complete.
	IsComplete bool `json:"is_complete"`

	// Ordinal is the emission index within the segmentation.
	Ordinal int `json:"ordinal"`

	// Position in the buffer. StartLine/EndLine are a half-open range of
	// 0-based line indices that includes the fence lines.
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
	Offset    int `json:"offset"`

	// Raw fence lines, kept so Reconstruct is lossless.
	Fence      string `json:"fence,omitempty"`
	CloseFence string `json:"close_fence,omitempty"`

	// TrailingNewline is set on the final segment when the buffer ends with "\n".
	TrailingNewline bool `json:"trailing_newline,omitempty"`
}

// IsCode reports whether the segment is a fenced code block.
func (s Segment) IsCode() bool {
	return s.Kind == KindCode
}

// IsText reports whether the segment is prose.
func (s Segment) IsText() bool {
	return s.Kind == KindText
}

// Key returns the rendering key for the segment. Keys are stable while the
// buffer grows: a segment whose start does not move keeps its key.
func (s Segment) Key() string {
	if s.Kind == KindCode {
		return "code-" + strconv.Itoa(s.CodeOrdinal)
	}
	return "text-" + strconv.Itoa(s.Ordinal)
}

// LineCount returns the number of buffer lines the segment covers.
func (s Segment) LineCount() int {
	return s.EndLine - s.StartLine
}

// contentLineCount returns the number of lines between the fences of a code
// segment, or the line count of a text segment.
func (s Segment) contentLineCount() int {
	if s.Kind != KindCode {
		return s.LineCount()
	}
	n := s.LineCount() - 1
	if s.IsComplete {
		n--
	}
	return n
}

// Lines returns the raw buffer lines covered by the segment, fences included.
func (s Segment) Lines() []string {
	if s.Kind != KindCode {
		return strings.Split(s.Content, "\n")
	}

	fence := s.Fence
	if fence == "" {
		fence = FenceToken + s.Language
	}
	lines := []string{fence}
	if s.contentLineCount() > 0 {
		lines = append(lines, strings.Split(s.Content, "\n")...)
	}
	if s.IsComplete {
		closing := s.CloseFence
		if closing == "" {
			closing = FenceToken
		}
		lines = append(lines, closing)
	}
	return lines
}

// =============================================================================
// DIAGNOSTIC TYPES
// =============================================================================

// CodeBlockRecord describes a code block for inspection tooling.
type CodeBlockRecord struct {
	Language   string `json:"language"`
	Content    string `json:"content"`
	IsComplete bool   `json:"is_complete"`

	// StartIndex is the line index of the opening fence. EndIndex is the line
	// index of the closing fence, or the line count for an incomplete block.
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

// IssueKind identifies a validation problem.
type IssueKind string

// IssueUnclosedCodeBlock is reported when the buffer ends inside a fence.
const IssueUnclosedCodeBlock IssueKind = "unclosed_code_block"

// ValidationIssue is a problem detected by ValidateSyntax.
type ValidationIssue struct {
	Kind       IssueKind `json:"kind"`
	LineNumber int       `json:"line_number"`
	Message    string    `json:"message"`
}

// String returns a one-line description of the issue.
func (v ValidationIssue) String() string {
	return "line " + strconv.Itoa(v.LineNumber) + ": " + string(v.Kind) + ": " + v.Message
}
