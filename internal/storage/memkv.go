package storage

import (
	"fmt"
	"sync"
)

// MemKV is an in-memory KeyValue store. It backs the ephemeral storage
// mode and keeps the same quota behavior as DirKV.
type MemKV struct {
	mu       sync.Mutex
	values   map[string]string
	maxValue int
}

func NewMemKV(maxValue int) *MemKV {
	if maxValue <= 0 {
		maxValue = DefaultMaxValueSize
	}
	return &MemKV{values: map[string]string{}, maxValue: maxValue}
}

func (s *MemKV) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotExist
	}
	return v, nil
}

func (s *MemKV) Set(key, value string) error {
	if len(value) > s.maxValue {
		return fmt.Errorf("%w: key %q holds %d bytes (limit %d)", ErrQuotaExceeded, key, len(value), s.maxValue)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemKV) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemKV) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys, nil
}
