// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders segments, messages and transcripts.
package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/styles"
	"github.com/jeranaias/fenceline/internal/util"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "monokai"

// streamingLabel marks a code block whose closing fence has not arrived.
const streamingLabel = "streaming..."

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is a highlighted, framed code segment.
type CodeBlock struct {
	Language string
	Code     string
	Complete bool

	MaxWidth        int
	ShowLineNumbers bool
	Style           string

	theme *styles.Theme
}

// NewCodeBlock creates a complete code block.
func NewCodeBlock(theme *styles.Theme, language, code string) CodeBlock {
	return CodeBlock{
		Language:        language,
		Code:            code,
		Complete:        true,
		MaxWidth:        80,
		ShowLineNumbers: true,
		Style:           DefaultCodeStyle,
		theme:           theme,
	}
}

// CodeBlockFromSegment creates a code block for a code segment.
func CodeBlockFromSegment(theme *styles.Theme, seg segment.Segment) CodeBlock {
	c := NewCodeBlock(theme, seg.Language, seg.Content)
	c.Complete = seg.IsComplete
	return c
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block: a header with the language badge and
// completion marker, then the highlighted body. Code is never trimmed.
func (c CodeBlock) Render() string {
	t := c.theme
	code := util.ExpandTabs(c.Code, 4)
	lines := strings.Split(highlightCode(code, c.Language, c.Style, t.ChromaFormatter()), "\n")

	var b strings.Builder
	b.WriteString(c.header())

	numWidth := len(util.IntToString(len(lines)))
	for i, line := range lines {
		b.WriteByte('\n')
		if c.ShowLineNumbers {
			b.WriteString(t.LineNumber.Render(fmt.Sprintf("%*d", numWidth, i+1)))
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}

	frame := t.CodeFrame
	if c.MaxWidth > 0 {
		frame = frame.MaxWidth(c.MaxWidth)
	}
	return frame.Render(b.String())
}

// header renders the badge line.
func (c CodeBlock) header() string {
	t := c.theme
	badge := t.LanguageBadge.Render(c.Language)
	if c.Complete {
		return badge + " " + t.CompleteMarker.Render(styles.StatusIndicators.Success)
	}
	return badge + " " + t.StreamingMarker.Render(streamingLabel)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies syntax highlighting to code using the chroma library.
// The output has the same number of lines as the input.
func highlightCode(code, language, style, formatterName string) string {
	lexer := lookupLexer(language, code)

	chromaStyle := chromaStyles.Get(style)
	if chromaStyle == nil {
		chromaStyle = chromaStyles.Fallback
	}

	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return code
	}

	out := buf.String()
	if !strings.HasSuffix(code, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// lookupLexer resolves a lexer from the first word of the fence tag,
// falling back to content analysis.
func lookupLexer(language, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if fields := strings.Fields(language); len(fields) > 0 && language != segment.DefaultLanguage {
		lexer = lexers.Get(fields[0])
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// DetectLanguage guesses the language of untagged code. Returns
// segment.DefaultLanguage when nothing matches.
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return segment.DefaultLanguage
}
