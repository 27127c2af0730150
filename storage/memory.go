package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinex/reviewer/internal/dsa"
)

// MemoryStore implements ArtifactStore over a radix tree.
// Data is lost when process terminates.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts *dsa.Trie[[]byte]
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: dsa.NewTrie[[]byte](),
	}
}

// Save encodes and keeps content under name.
func (s *MemoryStore) Save(ctx context.Context, name string, content any) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	data, err := Encode(content)
	if err != nil {
		return Artifact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts.Insert(name, data)

	return Artifact{Name: name, Location: "memory://" + name, SizeBytes: len(data)}, nil
}

// Load returns a copy of the stored bytes.
func (s *MemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.artifacts.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// List returns the stored names starting with prefix.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifacts.KeysWithPrefix(prefix), nil
}

// Len returns the number of stored artifacts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifacts.Len()
}

var _ ArtifactStore = (*MemoryStore)(nil)
