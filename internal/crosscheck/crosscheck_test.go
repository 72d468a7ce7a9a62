// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package crosscheck compares the fence segmentation with a CommonMark parse.
package crosscheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Agreement(t *testing.T) {
	buffers := []string{
		"",
		"no code at all",
		"```js\nconsole.log(1)\n```",
		"intro\n\n```py\nprint(1)\n```\n\noutro",
		"```\nuntagged\n```",
		"```go\nx := 1",
	}
	for _, b := range buffers {
		assert.Empty(t, Compare(b), "buffer %q", b)
	}
}

func TestCompare_NestedFenceAttempt(t *testing.T) {
	divs := Compare("```js\n```py\nprint(1)\n```\n```")
	require.Len(t, divs, 1)
	assert.Equal(t, Divergence{
		Index:      0,
		Field:      FieldContent,
		Engine:     "",
		CommonMark: "```py\nprint(1)",
	}, divs[0])
}

func TestCompare_TildeFence(t *testing.T) {
	divs := Compare("~~~py\nx\n~~~")
	require.Len(t, divs, 1)
	assert.Equal(t, FieldCount, divs[0].Field)
	assert.Equal(t, -1, divs[0].Index)
	assert.Equal(t, "0", divs[0].Engine)
	assert.Equal(t, "1", divs[0].CommonMark)
}

func TestCompare_IndentedFence(t *testing.T) {
	divs := Compare("intro\n\n  ```go\n  x := 1\n  ```")
	require.Len(t, divs, 1)
	assert.Equal(t, FieldCount, divs[0].Field)
}

func TestCommonMarkBlocks(t *testing.T) {
	blocks := CommonMarkBlocks("```go\na\nb\n```\n\n```\n\n```")
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Language: "go", Content: "a\nb"}, blocks[0])
	assert.Equal(t, Block{Language: "code", Content: ""}, blocks[1])
}

func TestDivergence_String(t *testing.T) {
	d := Divergence{Index: 2, Field: FieldLanguage, Engine: "js x", CommonMark: "js"}
	if got := d.String(); got != `block 2: language differs (engine "js x", commonmark "js")` {
		t.Errorf("Unexpected string: %s", got)
	}

	d = Divergence{Index: -1, Field: FieldCount, Engine: "0", CommonMark: "1"}
	if got := d.String(); got != `blocks: count differs (engine "0", commonmark "1")` {
		t.Errorf("Unexpected string: %s", got)
	}
}
