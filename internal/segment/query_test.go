// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// HAS INCOMPLETE CODE BLOCK
// =============================================================================

func TestHasIncompleteCodeBlock(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		want   bool
	}{
		{"empty", "", false},
		{"prose", "just words", false},
		{"open fence", "```go\nx := 1", true},
		{"closed fence", "```go\nx := 1\n```", false},
		{"reopened", "```a\n```\n```b\n", true},
		{"inline token", "see ```this```", false},
		{"indented fence", "  ```go\nx", false},
		{"bare fence", "```", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasIncompleteCodeBlock(tc.buffer))
		})
	}
}

// =============================================================================
// VALIDATE SYNTAX
// =============================================================================

func TestValidateSyntax_Clean(t *testing.T) {
	assert.Empty(t, ValidateSyntax("```go\nx\n```\ntext"))
	assert.Empty(t, ValidateSyntax(""))
}

func TestValidateSyntax_Unclosed(t *testing.T) {
	issues := ValidateSyntax("intro\n```py\nprint(1)\nprint(2)")
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, IssueUnclosedCodeBlock, issue.Kind)
	assert.Equal(t, 4, issue.LineNumber)
	assert.Contains(t, issue.Message, "line 2")
	assert.Equal(t, "line 4: unclosed_code_block: code block opened on line 2 is never closed", issue.String())
}

func TestValidateSyntax_TrailingNewlineDoesNotCountAsLine(t *testing.T) {
	issues := ValidateSyntax("```js\nconsole.log(1)\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].LineNumber)
}

// =============================================================================
// EXTRACT CODE BLOCKS
// =============================================================================

func TestExtractCodeBlocks(t *testing.T) {
	buffer := "hello\n```py\nprint(1)\n```\nmid\n```\nopen"
	records := ExtractCodeBlocks(buffer)
	require.Len(t, records, 2)

	assert.Equal(t, CodeBlockRecord{
		Language:   "py",
		Content:    "print(1)",
		IsComplete: true,
		StartIndex: 1,
		EndIndex:   3,
	}, records[0])

	assert.Equal(t, CodeBlockRecord{
		Language:   "code",
		Content:    "open",
		IsComplete: false,
		StartIndex: 5,
		EndIndex:   7,
	}, records[1])
}

func TestExtractCodeBlocks_None(t *testing.T) {
	assert.Nil(t, ExtractCodeBlocks("``"))
	assert.Nil(t, ExtractCodeBlocks("only ```inline``` text"))
}

func TestCodeSegments(t *testing.T) {
	segs := Split("a\n```x\n1\n```\nb")
	code := CodeSegments(segs)
	require.Len(t, code, 1)
	assert.Equal(t, "x", code[0].Language)
	assert.Nil(t, CodeSegments(nil))
}

// =============================================================================
// SEGMENT HELPERS
// =============================================================================

func TestSegment_KindHelpers(t *testing.T) {
	code := Segment{Kind: KindCode}
	text := Segment{Kind: KindText}

	if !code.IsCode() || code.IsText() {
		t.Error("Expected code segment to report IsCode")
	}
	if !text.IsText() || text.IsCode() {
		t.Error("Expected text segment to report IsText")
	}
	if KindCode.String() != "code" {
		t.Errorf("Expected 'code', got '%s'", KindCode.String())
	}
}

func TestSegment_LinesIncompleteEmpty(t *testing.T) {
	seg := Segment{Kind: KindCode, Language: "go", StartLine: 0, EndLine: 1}
	assert.Equal(t, []string{"```go"}, seg.Lines())
	assert.Equal(t, 1, seg.LineCount())
}
