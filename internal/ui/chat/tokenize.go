// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the transcript replay viewer.
package chat

import (
	"unicode"
)

// maxTokenRunes bounds a single replay token so long runs of non-space
// characters still arrive in pieces.
const maxTokenRunes = 8

// Tokenize splits content into replay tokens the way a model streams them:
// a run of non-space characters followed by its trailing spaces. A newline
// always ends a token. Concatenating the tokens yields content.
func Tokenize(content string) []string {
	var tokens []string
	start := 0
	runes := 0
	inSpace := false

	for i, r := range content {
		switch {
		case r == '\n':
			tokens = append(tokens, content[start:i+1])
			start, runes, inSpace = i+1, 0, false
			continue
		case unicode.IsSpace(r):
			inSpace = true
		case inSpace || runes >= maxTokenRunes:
			tokens = append(tokens, content[start:i])
			start, runes, inSpace = i, 0, false
		}
		runes++
	}
	if start < len(content) {
		tokens = append(tokens, content[start:])
	}
	return tokens
}
