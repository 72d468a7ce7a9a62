// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal remembers which segments have already played their reveal
// animation.
package reveal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/fenceline/internal/segment"
)

// =============================================================================
// STORES
// =============================================================================

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	seen, err := store.Seen(ctx, "m1/text-0")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Mark(ctx, "m1/text-0"))
	require.NoError(t, store.Mark(ctx, "m1/text-0"))

	seen, err = store.Seen(ctx, "m1/text-0")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen(ctx, "m2/text-0")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Reset(ctx))
	seen, err = store.Seen(ctx, "m1/text-0")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("msg", segment.Segment{Kind: segment.KindText, Ordinal: i % 5}.Key())
			_ = store.Mark(ctx, key)
			_, _ = store.Seen(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, store.Len())
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "reveal.db"))
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reveal.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Mark(ctx, "a/code-0"))
	require.NoError(t, store.Mark(ctx, "a/text-1"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seen, err := reopened.Seen(ctx, "a/code-0")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLiteStore_Closed(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Seen(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Mark(context.Background(), "k"), ErrClosed)
}

// =============================================================================
// CONTROLLER
// =============================================================================

func TestController_AnimatesOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := NewController(NewMemoryStore(), 4)
	seg := segment.Segment{Kind: segment.KindText, Content: "hello", IsComplete: true}
	key := Key("msg-1", seg.Key())

	ok, err := ctrl.ShouldAnimate(ctx, key, seg)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, ctrl.Done(ctx, key))

	ok, err = ctrl.ShouldAnimate(ctx, key, seg)
	require.NoError(t, err)
	assert.False(t, ok, "a key must not animate twice")

	ok, err = ctrl.ShouldAnimate(ctx, Key("msg-2", seg.Key()), seg)
	require.NoError(t, err)
	assert.True(t, ok, "same segment key in another message animates")
}

func TestController_IncompleteNeverAnimates(t *testing.T) {
	ctrl := NewController(NewMemoryStore(), 4)
	seg := segment.Segment{Kind: segment.KindCode, Content: "x", IsComplete: false}

	ok, err := ctrl.ShouldAnimate(context.Background(), "m/code-0", seg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_Frames(t *testing.T) {
	ctrl := NewController(NewMemoryStore(), 5).WithSeed(42)
	text := "reveal me\nnow"

	frames := ctrl.Frames(text)
	require.Len(t, frames, 5)
	assert.Equal(t, text, frames[len(frames)-1])

	for _, f := range frames {
		assert.Equal(t, utf8.RuneCountInString(text), utf8.RuneCountInString(f))
		assert.Equal(t, ' ', []rune(f)[6], "spaces are never scrambled")
		assert.Equal(t, '\n', []rune(f)[9], "newlines are never scrambled")
	}

	again := NewController(NewMemoryStore(), 5).WithSeed(42).Frames(text)
	assert.Equal(t, frames, again, "frames are deterministic for a seed")
}

func TestController_DefaultFrames(t *testing.T) {
	ctrl := NewController(NewMemoryStore(), 0)
	assert.Len(t, ctrl.Frames("abc"), DefaultFrames)
	assert.Len(t, ctrl.Frames(""), DefaultFrames)
}
