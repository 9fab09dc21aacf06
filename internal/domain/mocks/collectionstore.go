// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"sync"
)

// CollectionStore is a mock implementation of ports.CollectionStore backed
// by a map.
type CollectionStore struct {
	mu   sync.Mutex
	Data map[string][]byte

	Err    error // returned by every call when set
	SetErr error // returned by Set only

	// Call tracking
	SetCallCount int
}

// NewCollectionStore creates a new mock CollectionStore.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{
		Data: make(map[string][]byte),
	}
}

// EnsureSchema returns the configured error.
func (m *CollectionStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Get returns a copy of the stored bytes, or nil when key is absent.
func (m *CollectionStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	data, ok := m.Data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Set stores a copy of data under key.
func (m *CollectionStore) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCallCount++
	if m.Err != nil {
		return m.Err
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = append([]byte(nil), data...)
	return nil
}

// Keys lists stored keys in sorted order.
func (m *CollectionStore) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the store.
func (m *CollectionStore) Close() error {
	return nil
}
