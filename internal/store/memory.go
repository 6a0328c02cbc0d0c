package store

import (
	"sync"

	"github.com/pkg/errors"
)

// Memory is a Store keeping values in memory. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (s *Memory) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "key %q", key)
	}
	return append([]byte(nil), v...), nil
}

func (s *Memory) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) Close() error { return nil }
