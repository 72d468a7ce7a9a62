// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal remembers which segments have already played their reveal
// animation.
package reveal

import (
	"context"
	"sync"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store records which reveal keys have been animated.
type Store interface {
	// Seen reports whether key was marked before.
	Seen(ctx context.Context, key string) (bool, error)

	// Mark records key as animated. Marking twice is not an error.
	Mark(ctx context.Context, key string) error

	// Reset forgets every key.
	Reset(ctx context.Context) error
}

// Key builds the store key for a segment of a message.
func Key(messageID, segmentKey string) string {
	return messageID + "/" + segmentKey
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore is a Store backed by a map. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// Seen implements Store.
func (m *MemoryStore) Seen(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seen[key]
	return ok, nil
}

// Mark implements Store.
func (m *MemoryStore) Mark(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[key] = struct{}{}
	return nil
}

// Reset implements Store.
func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = make(map[string]struct{})
	return nil
}

// Len returns the number of marked keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seen)
}
