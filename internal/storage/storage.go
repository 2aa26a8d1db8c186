package storage

import "errors"

var (
	ErrNotExist      = errors.New("storage: key does not exist")
	ErrQuotaExceeded = errors.New("storage: value exceeds size quota")
)

// DocumentStore reads and writes whole named documents. The host-file
// backend persists each document as a single JSON file.
type DocumentStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// KeyValue is a flat string store with a per-value size quota. It mirrors
// the browser local-storage surface the chunked backend was written for.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}
