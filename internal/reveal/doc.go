// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal remembers which segments have already played their reveal
// animation.
//
// A reveal is the short character-scramble effect shown when a text segment
// first appears complete. Segment keys are stable while a response streams,
// so the memory is keyed by "<messageID>/<segment key>" and lives in an
// explicit Store handed to the Controller. Nothing is kept in package state.
//
// # Stores
//
//   - MemoryStore: process-local map, used by the replay viewer and tests
//   - SQLiteStore: persistent table so a reopened transcript does not replay
//     animations that were already shown
//
// # Usage
//
//	ctrl := reveal.NewController(reveal.NewMemoryStore(), 8)
//	key := reveal.Key(msg.ID, seg.Key())
//	if ok, _ := ctrl.ShouldAnimate(ctx, key, seg); ok {
//	    frames := ctrl.Frames(seg.Content)
//	    ...
//	    ctrl.Done(ctx, key)
//	}
package reveal
