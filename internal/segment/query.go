// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
package segment

import (
	"fmt"
)

// =============================================================================
// READ-ONLY QUERIES
// =============================================================================

// HasIncompleteCodeBlock reports whether the buffer ends inside a code block.
// It toggles on fence lines only and agrees with the IsComplete flag of the
// last segment returned by Split.
func HasIncompleteCodeBlock(buffer string) bool {
	lines, _ := splitLines(buffer)
	inside := false
	for _, line := range lines {
		if isFence(line) {
			inside = !inside
		}
	}
	return inside
}

// ValidateSyntax reports a dangling fence. It does not inspect individual
// blocks: the only issue it can return is a single IssueUnclosedCodeBlock
// carrying the 1-based number of the last line.
func ValidateSyntax(buffer string) []ValidationIssue {
	lines, _ := splitLines(buffer)
	inside := false
	openedAt := 0
	for i, line := range lines {
		if !isFence(line) {
			continue
		}
		inside = !inside
		if inside {
			openedAt = i + 1
		}
	}

	if !inside {
		return nil
	}
	return []ValidationIssue{{
		Kind:       IssueUnclosedCodeBlock,
		LineNumber: len(lines),
		Message:    fmt.Sprintf("code block opened on line %d is never closed", openedAt),
	}}
}

// ExtractCodeBlocks returns the code blocks of buffer with their fence line
// indices. Language, content and completeness match the code segments of
// Split for the same buffer.
func ExtractCodeBlocks(buffer string) []CodeBlockRecord {
	var records []CodeBlockRecord
	for _, seg := range Split(buffer) {
		if seg.Kind != KindCode {
			continue
		}
		end := seg.EndLine
		if seg.IsComplete {
			end--
		}
		records = append(records, CodeBlockRecord{
			Language:   seg.Language,
			Content:    seg.Content,
			IsComplete: seg.IsComplete,
			StartIndex: seg.StartLine,
			EndIndex:   end,
		})
	}
	return records
}

// CodeSegments returns only the code segments, in order.
func CodeSegments(segments []Segment) []Segment {
	var out []Segment
	for _, seg := range segments {
		if seg.Kind == KindCode {
			out = append(out, seg)
		}
	}
	return out
}
