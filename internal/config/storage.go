package config

import (
	"os"
	"path/filepath"
	"strconv"

	"BirthdayRoster/internal/storage"
)

// Storage modes. "file" is the host-file backend (whole JSON documents),
// "kv" the quota-limited chunked backend, "memory" an ephemeral variant
// of the chunked backend.
const (
	ModeFile   = "file"
	ModeKV     = "kv"
	ModeMemory = "memory"
)

type StorageConfig struct {
	Mode         string
	DataDir      string
	MaxValueSize int
}

func NewStorageConfig() *StorageConfig {
	mode := os.Getenv("ROSTER_STORAGE_MODE")
	switch mode {
	case ModeFile, ModeKV, ModeMemory:
	default:
		mode = ModeFile
	}

	dataDir := os.Getenv("ROSTER_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	maxValue := storage.DefaultMaxValueSize
	if raw := os.Getenv("ROSTER_KV_MAX_VALUE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxValue = n
		}
	}

	return &StorageConfig{Mode: mode, DataDir: dataDir, MaxValueSize: maxValue}
}

// KVDir is where the chunked backend keeps its per-key files.
func (c *StorageConfig) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}
