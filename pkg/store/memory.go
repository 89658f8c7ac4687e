package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process store for tests and ephemeral sessions.
// Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Get retrieves a value; expired entries are dropped and reported as a miss.
func (s *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores a value. A ttl of zero means no expiry.
func (s *Memory) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{Data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes a value.
func (s *Memory) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the memory store.
func (s *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
