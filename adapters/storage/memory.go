package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is an in-memory lexicon store.
type MemoryAdapter struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// NewMemoryAdapter creates a memory storage adapter seeded with words.
func NewMemoryAdapter(words ...string) *MemoryAdapter {
	m := &MemoryAdapter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		m.words[w] = struct{}{}
	}
	return m
}

func (m *MemoryAdapter) AddWord(_ context.Context, word string) error {
	m.mu.Lock()
	m.words[word] = struct{}{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) RemoveWord(_ context.Context, word string) error {
	m.mu.Lock()
	delete(m.words, word)
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) Words(_ context.Context) ([]string, error) {
	m.mu.RLock()
	out := make([]string, 0, len(m.words))
	for word := range m.words {
		out = append(out, word)
	}
	m.mu.RUnlock()
	return out, nil
}

func (m *MemoryAdapter) HasWord(_ context.Context, word string) (bool, error) {
	m.mu.RLock()
	_, ok := m.words[word]
	m.mu.RUnlock()
	return ok, nil
}
