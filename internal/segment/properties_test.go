// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package segment splits a chat response buffer into prose and fenced code.
package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// propertyCorpus holds buffers that contain the fence token.
var propertyCorpus = []string{
	"```js\nconsole.log(1)\n```",
	"```js\nconsole.log(1)\n",
	"hello\n\n```py\nprint(1)\n```\n\nworld",
	"```js\n```py\nprint(1)\n```\n```",
	"```",
	"```\n",
	"```go\n```\n",
	"Sure! Here is the fix:\n\n```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```\n\nAnd the test:\n\n```go\nfunc TestMain(t *testing.T) {}\n```\n",
	"a\n```x\n1\n```\nb\n```y\n2\n```\nc\n```z\n3",
	"inline ```code``` only",
	"```md\n# title\n\n- item\n```\ntrailing prose\n\n",
	"```\n\n\n```",
	"text\r\n```sh\r\nls -la\r\n```\r\n",
	"```a\n1\n```\n   \n```b\n2\n```",
	"```bash\n$ echo '```'\n```",
}

// lineBoundaryPrefixes returns every prefix of b that ends at a line boundary.
func lineBoundaryPrefixes(b string) []string {
	prefixes := []string{""}
	for i := 0; i < len(b); i++ {
		if b[i] == '\n' {
			prefixes = append(prefixes, b[:i+1])
		}
	}
	return append(prefixes, b)
}

func TestProperty_RoundTrip(t *testing.T) {
	for _, b := range propertyCorpus {
		assert.Equal(t, b, Reconstruct(Split(b)), "round trip of %q", b)
	}
}

func TestProperty_RoundTripEveryPrefix(t *testing.T) {
	for _, b := range propertyCorpus {
		for i := 0; i <= len(b); i++ {
			p := b[:i]
			if !strings.Contains(p, FenceToken) {
				continue
			}
			require.Equal(t, p, Reconstruct(Split(p)), "round trip of prefix %q", p)
		}
	}
}

func TestProperty_NoFencePassthrough(t *testing.T) {
	for _, b := range []string{"", "hi", "a\nb\n", "``", "`` `"} {
		assert.Nil(t, Split(b))
		assert.False(t, HasIncompleteCodeBlock(b))
		assert.Empty(t, ValidateSyntax(b))
		assert.Empty(t, ExtractCodeBlocks(b))
	}
}

func TestProperty_CompletenessAgreement(t *testing.T) {
	for _, b := range propertyCorpus {
		for i := 0; i <= len(b); i++ {
			p := b[:i]
			segs := Split(p)
			lastIncomplete := len(segs) > 0 && !segs[len(segs)-1].IsComplete
			assert.Equal(t, lastIncomplete, HasIncompleteCodeBlock(p), "prefix %q", p)
		}
	}
}

func TestProperty_ValidatorAgreement(t *testing.T) {
	for _, b := range propertyCorpus {
		issues := ValidateSyntax(b)
		if HasIncompleteCodeBlock(b) {
			require.Len(t, issues, 1, "buffer %q", b)
			assert.Equal(t, IssueUnclosedCodeBlock, issues[0].Kind)
		} else {
			assert.Empty(t, issues, "buffer %q", b)
		}
	}
}

func TestProperty_ExtractAgreesWithSplit(t *testing.T) {
	for _, b := range propertyCorpus {
		code := CodeSegments(Split(b))
		records := ExtractCodeBlocks(b)
		require.Len(t, records, len(code), "buffer %q", b)
		for i, rec := range records {
			assert.Equal(t, code[i].Language, rec.Language)
			assert.Equal(t, code[i].Content, rec.Content)
			assert.Equal(t, code[i].IsComplete, rec.IsComplete)
		}
	}
}

// Growing the buffer one line at a time must never change a segment that is
// already followed by another segment, nor a closed code block.
func TestProperty_StreamingStability(t *testing.T) {
	for _, b := range propertyCorpus {
		full := Split(b)
		for _, p := range lineBoundaryPrefixes(b) {
			partial := Split(p)
			for i, seg := range partial {
				last := i == len(partial)-1
				if last && !(seg.IsCode() && seg.IsComplete) {
					continue
				}
				require.Less(t, i, len(full), "prefix %q of %q", p, b)
				want := full[i]
				seg.TrailingNewline = false
				want.TrailingNewline = false
				assert.Equal(t, want, seg, "segment %d of prefix %q", i, p)
			}
		}
	}
}

func TestProperty_KeysUniqueAndStable(t *testing.T) {
	for _, b := range propertyCorpus {
		seen := make(map[string]bool)
		for _, seg := range Split(b) {
			assert.False(t, seen[seg.Key()], "duplicate key %s in %q", seg.Key(), b)
			seen[seg.Key()] = true
		}
	}
}
