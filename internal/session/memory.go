package session

import (
	"context"
	"sync"
)

// MemoryStore is the in-process backend. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	turns    map[string][]Turn
	maxTurns int
}

// NewMemoryStore creates a memory-backed store retaining at most maxTurns
// turns per session.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{turns: make(map[string][]Turn), maxTurns: maxTurns}
}

func (s *MemoryStore) Append(_ context.Context, id string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[id], turn)
	if len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.turns[id] = history
	return nil
}

func (s *MemoryStore) History(_ context.Context, id string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.turns[id]
	out := make([]Turn, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
