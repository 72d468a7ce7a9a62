// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment_test

import (
	"fmt"

	"github.com/jeranaias/fenceline/internal/segment"
)

func ExampleSplit() {
	buffer := "Here you go:\n```go\nfmt.Println(\"hi\")\n```\nDone."
	for _, seg := range segment.Split(buffer) {
		if seg.IsCode() {
			fmt.Printf("%s lang=%s complete=%v %q\n", seg.Key(), seg.Language, seg.IsComplete, seg.Content)
			continue
		}
		fmt.Printf("%s %q\n", seg.Key(), seg.Content)
	}
	// Output:
	// text-0 "Here you go:"
	// code-0 lang=go complete=true "fmt.Println(\"hi\")"
	// text-2 "Done."
}

func ExampleHasIncompleteCodeBlock() {
	stream := []string{"Try", "Try:\n```sh\n", "Try:\n```sh\nls\n", "Try:\n```sh\nls\n```"}
	for _, buffer := range stream {
		fmt.Println(segment.HasIncompleteCodeBlock(buffer))
	}
	// Output:
	// false
	// true
	// true
	// false
}
