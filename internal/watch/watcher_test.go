// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-segments a file every time it changes.
package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 5 * time.Second

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// next waits for an update whose buffer equals want.
func next(t *testing.T, updates <-chan Update, want string) Update {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case u := <-updates:
			if u.Buffer == want {
				return u
			}
		case <-deadline:
			t.Fatalf("timed out waiting for buffer %q", want)
		}
	}
}

func collector() (Handler, chan Update) {
	ch := make(chan Update, 64)
	return func(u Update) { ch <- u }, ch
}

func TestFsnotifyWatcher_ResegmentsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	writeFile(t, path, "intro\n")

	handler, updates := collector()
	w, err := NewFsnotifyWatcher(path, handler, Options{Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	first := next(t, updates, "intro\n")
	assert.Nil(t, first.Segments)
	assert.False(t, first.Incomplete)

	writeFile(t, path, "intro\n```go\nx := 1\n")
	open := next(t, updates, "intro\n```go\nx := 1\n")
	require.Len(t, open.Segments, 2)
	assert.True(t, open.Incomplete)
	assert.Len(t, open.Issues, 1)

	writeFile(t, path, "intro\n```go\nx := 1\n```\n")
	closed := next(t, updates, "intro\n```go\nx := 1\n```\n")
	assert.False(t, closed.Incomplete)
	assert.Empty(t, closed.Issues)
	assert.True(t, closed.Segments[1].IsComplete)
}

func TestFsnotifyWatcher_MissingFile(t *testing.T) {
	handler, _ := collector()
	w, err := NewFsnotifyWatcher(filepath.Join(t.TempDir(), "missing.md"), handler, Options{})
	require.NoError(t, err)
	defer w.Close()
	assert.Error(t, w.Watch())
}

func TestPollingWatcher_ResegmentsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	writeFile(t, path, "```py\n")

	handler, updates := collector()
	w := NewPollingWatcher(path, handler, Options{PollInterval: 10 * time.Millisecond})
	require.NoError(t, w.Watch())
	defer w.Close()

	first := next(t, updates, "```py\n")
	assert.True(t, first.Incomplete)

	writeFile(t, path, "```py\nprint(1)\n```")
	done := next(t, updates, "```py\nprint(1)\n```")
	require.Len(t, done.Segments, 1)
	assert.Equal(t, "print(1)", done.Segments[0].Content)
}

func TestResegmenter_SkipsUnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	writeFile(t, path, "same")

	calls := 0
	opts := Options{}
	opts.setDefaults()
	r := &resegmenter{path: path, handler: func(Update) { calls++ }, log: opts.Logger}

	require.NoError(t, r.run())
	require.NoError(t, r.run())
	assert.Equal(t, 1, calls)

	writeFile(t, path, "changed")
	require.NoError(t, r.run())
	assert.Equal(t, 2, calls)
}

func TestNew_ReturnsWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.md")
	writeFile(t, path, "x")

	handler, updates := collector()
	w, err := New(path, handler, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	next(t, updates, "x")
	assert.NoError(t, w.Close())
}
