package bridge

import (
	"context"
	"sync"
)

// Sequencer issues monotonically increasing request tokens per scope.
type Sequencer interface {
	Next(ctx context.Context, scope string) (uint64, error)
	Current(ctx context.Context, scope string) (uint64, error)
}

// MemorySequencer keeps tokens in process memory.
type MemorySequencer struct {
	mu     sync.Mutex
	tokens map[string]uint64
}

// NewMemorySequencer returns an empty sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{tokens: make(map[string]uint64)}
}

// Next issues the next token for scope.
func (s *MemorySequencer) Next(_ context.Context, scope string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[scope]++
	return s.tokens[scope], nil
}

// Current returns the latest token issued for scope, zero when none.
func (s *MemorySequencer) Current(_ context.Context, scope string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[scope], nil
}
