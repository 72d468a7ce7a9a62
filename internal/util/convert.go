// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across fenceline.
package util

import "strconv"

// IntToString converts an integer to its decimal string.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// Plural returns "1 segment" / "3 segments" style counts.
func Plural(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + singular + "s"
}
