package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxValueSize models the per-value quota of browser local storage.
const DefaultMaxValueSize = 2 << 20

// DirKV is a KeyValue store backed by a directory, one file per key.
// Keys are percent-encoded so arbitrary key strings stay filename-safe.
type DirKV struct {
	mu       sync.Mutex
	dir      string
	maxValue int
}

func NewDirKV(dir string, maxValue int) (*DirKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create kv directory: %w", err)
	}
	if maxValue <= 0 {
		maxValue = DefaultMaxValueSize
	}
	return &DirKV{dir: dir, maxValue: maxValue}, nil
}

func (s *DirKV) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key))
}

func (s *DirKV) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotExist
		}
		return "", err
	}
	return string(data), nil
}

func (s *DirKV) Set(key, value string) error {
	if len(value) > s.maxValue {
		return fmt.Errorf("%w: key %q holds %d bytes (limit %d)", ErrQuotaExceeded, key, len(value), s.maxValue)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path(key), []byte(value), 0o644)
}

func (s *DirKV) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DirKV) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, err := url.PathUnescape(e.Name())
		if err != nil {
			// Not one of ours, ignore.
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
