// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal remembers which segments have already played their reveal
// animation.
package reveal

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"unicode"

	"github.com/jeranaias/fenceline/internal/segment"
)

// DefaultFrames is the animation length used when none is configured.
const DefaultFrames = 8

// scrambleGlyphs are drawn for characters that are not revealed yet.
const scrambleGlyphs = "!<>-_\\/[]{}=+*^?#01"

// Controller decides whether a segment animates and produces its frames.
type Controller struct {
	store  Store
	frames int
	seed   uint64
}

// NewController creates a controller over store. frames below 1 fall back to
// DefaultFrames.
func NewController(store Store, frames int) *Controller {
	if frames < 1 {
		frames = DefaultFrames
	}
	return &Controller{store: store, frames: frames}
}

// WithSeed fixes the scramble seed. Frames stay deterministic for a given
// seed and text.
func (c *Controller) WithSeed(seed uint64) *Controller {
	c.seed = seed
	return c
}

// Store returns the backing store.
func (c *Controller) Store() Store {
	return c.store
}

// ShouldAnimate reports whether seg should play its reveal now. Incomplete
// segments never animate, and a key animates at most once.
func (c *Controller) ShouldAnimate(ctx context.Context, key string, seg segment.Segment) (bool, error) {
	if !seg.IsComplete {
		return false, nil
	}
	seen, err := c.store.Seen(ctx, key)
	if err != nil {
		return false, err
	}
	return !seen, nil
}

// Done marks key as animated.
func (c *Controller) Done(ctx context.Context, key string) error {
	return c.store.Mark(ctx, key)
}

// Frames returns the scramble frames for text. Frame i shows the first
// (i+1)/n of the characters; the rest are replaced by noise glyphs. Spaces
// and newlines are never scrambled and the last frame equals text.
func (c *Controller) Frames(text string) []string {
	runes := []rune(text)
	rng := rand.New(rand.NewPCG(c.seed, textSeed(text)))
	glyphs := []rune(scrambleGlyphs)

	out := make([]string, c.frames)
	for i := 0; i < c.frames; i++ {
		revealed := len(runes) * (i + 1) / c.frames
		frame := make([]rune, len(runes))
		for j, r := range runes {
			if j < revealed || unicode.IsSpace(r) {
				frame[j] = r
				continue
			}
			frame[j] = glyphs[rng.IntN(len(glyphs))]
		}
		out[i] = string(frame)
	}
	return out
}

func textSeed(text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return h.Sum64()
}
