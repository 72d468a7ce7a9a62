// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package crosscheck compares the fence segmentation with a CommonMark parse.
//
// The segmentation engine deliberately ignores indented fences, tilde fences
// and longer backtick runs. This package parses the same buffer with goldmark
// and reports every place where the two readings of the code blocks differ,
// which is useful when a rendered response looks wrong.
package crosscheck

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/jeranaias/fenceline/internal/segment"
)

// Field names reported in a Divergence.
const (
	FieldCount    = "count"
	FieldLanguage = "language"
	FieldContent  = "content"
)

// Block is a code block as seen by one of the two parsers.
type Block struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

// Divergence is a single disagreement between the engine and CommonMark.
type Divergence struct {
	// Index is the code block position. It is -1 for count mismatches.
	Index      int    `json:"index"`
	Field      string `json:"field"`
	Engine     string `json:"engine"`
	CommonMark string `json:"commonmark"`
}

// String returns a one-line description of the divergence.
func (d Divergence) String() string {
	where := "blocks"
	if d.Index >= 0 {
		where = "block " + strconv.Itoa(d.Index)
	}
	return where + ": " + d.Field + " differs (engine " + strconv.Quote(d.Engine) +
		", commonmark " + strconv.Quote(d.CommonMark) + ")"
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// EngineBlocks returns the code blocks found by segment.Split.
func EngineBlocks(buffer string) []Block {
	var blocks []Block
	for _, seg := range segment.CodeSegments(segment.Split(buffer)) {
		blocks = append(blocks, Block{Language: seg.Language, Content: seg.Content})
	}
	return blocks
}

// CommonMarkBlocks returns the fenced code blocks goldmark finds in buffer.
// An empty info string is reported as segment.DefaultLanguage so both sides
// use the same placeholder.
func CommonMarkBlocks(buffer string) []Block {
	source := []byte(buffer)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var content strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}

		language := ""
		if fenced.Info != nil {
			language = strings.TrimSpace(string(fenced.Info.Segment.Value(source)))
		}
		if language == "" {
			language = segment.DefaultLanguage
		}

		blocks = append(blocks, Block{
			Language: language,
			Content:  strings.TrimSuffix(content.String(), "\n"),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// Compare reports where the engine and CommonMark disagree about the code
// blocks of buffer. Blocks are paired by position.
func Compare(buffer string) []Divergence {
	engine := EngineBlocks(buffer)
	common := CommonMarkBlocks(buffer)

	var out []Divergence
	if len(engine) != len(common) {
		out = append(out, Divergence{
			Index:      -1,
			Field:      FieldCount,
			Engine:     strconv.Itoa(len(engine)),
			CommonMark: strconv.Itoa(len(common)),
		})
	}

	n := min(len(engine), len(common))
	for i := 0; i < n; i++ {
		e, c := engine[i], common[i]
		if e.Language != c.Language {
			out = append(out, Divergence{Index: i, Field: FieldLanguage, Engine: e.Language, CommonMark: c.Language})
		}
		if e.Content != c.Content {
			out = append(out, Divergence{Index: i, Field: FieldContent, Engine: e.Content, CommonMark: c.Content})
		}
	}
	return out
}
