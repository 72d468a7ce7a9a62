// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across fenceline.
package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Expected 'updated', got %q", string(content))
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteAtomic_FailedWriteKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")
	if err := AtomicWriteFile(path, []byte("keep me"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	boom := errors.New("encoder failed")
	err := WriteAtomic(path, 0600, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected write error to be returned, got %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "keep me" {
		t.Errorf("Expected original content, got %q", string(content))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the original file, got %d entries", len(entries))
	}
}

func TestWriteAtomic_SetsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	err := WriteAtomic(path, 0600, func(w io.Writer) error {
		_, err := io.WriteString(w, "[ui]\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"日本語テキスト", 5, "日本..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"", 0},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.in); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	got := TruncateWidth("日本語テキスト", 8)
	if StringWidth(got) > 8 {
		t.Errorf("Truncated width %d exceeds 8: %q", StringWidth(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
	if got := TruncateWidth("abcdef", 2); got != "ab" {
		t.Errorf("Expected 'ab', got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("日", 4); got != "日  " {
		t.Errorf("PadRight = %q", got)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no tabs", "no tabs"},
		{"\tx", "    x"},
		{"ab\tc", "ab  c"},
		{"a\n\tb", "a\n    b"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in, 4); got != tt.want {
			t.Errorf("ExpandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrapWidth(t *testing.T) {
	got := WrapWidth("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if StringWidth(line) > 10 {
			t.Errorf("Line %q exceeds width", line)
		}
	}
	if got != "the quick\nbrown fox\njumps" {
		t.Errorf("Unexpected wrap: %q", got)
	}

	if got := WrapWidth("abcdefghij", 4); got != "abcd\nefgh\nij" {
		t.Errorf("Expected hard split, got %q", got)
	}
	if got := WrapWidth("para one\n\npara two", 20); got != "para one\n\npara two" {
		t.Errorf("Expected blank line preserved, got %q", got)
	}
	if got := WrapWidth("日本", 1); got != "日\n本" {
		t.Errorf("Expected wide runes split one per line, got %q", got)
	}
}

// =============================================================================
// CONVERT TESTS
// =============================================================================

func TestIntToString(t *testing.T) {
	if IntToString(-42) != "-42" {
		t.Error("IntToString(-42) failed")
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "segment"); got != "1 segment" {
		t.Errorf("got %q", got)
	}
	if got := Plural(3, "segment"); got != "3 segments" {
		t.Errorf("got %q", got)
	}
}
