package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"BirthdayRoster/internal/config"
	"BirthdayRoster/internal/storage"
)

// DefaultNamespace is the key prefix the chunked backend writes under.
// It doubles as the legacy whole-collection key that pre-chunked
// installations stored the full array beneath.
const DefaultNamespace = "employee-manager-data"

const documentName = "employees.json"

// Repository persists the whole employee collection. Every save is a
// full rewrite; the dataset is one organization's roster.
type Repository interface {
	Load() ([]Employee, error)
	Save([]Employee) error
}

// NewRepository selects the backend once, at construction time, so no
// environment checks leak into the store logic.
func NewRepository(cfg *config.StorageConfig, logger *zap.Logger) (Repository, error) {
	switch cfg.Mode {
	case config.ModeKV:
		kv, err := storage.NewDirKV(cfg.KVDir(), cfg.MaxValueSize)
		if err != nil {
			return nil, err
		}
		return NewChunkedRepository(kv, DefaultNamespace, logger), nil
	case config.ModeMemory:
		return NewChunkedRepository(storage.NewMemKV(cfg.MaxValueSize), DefaultNamespace, logger), nil
	default:
		docs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewFileRepository(docs, logger), nil
	}
}

// FileRepository keeps the collection as one JSON array in a single
// document. This path has no quota concern.
type FileRepository struct {
	docs storage.DocumentStore
	log  *zap.Logger
}

func NewFileRepository(docs storage.DocumentStore, logger *zap.Logger) *FileRepository {
	return &FileRepository{docs: docs, log: logger}
}

func (r *FileRepository) Load() ([]Employee, error) {
	data, err := r.docs.Read(documentName)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return []Employee{}, nil
		}
		return nil, fmt.Errorf("read employees: %w", err)
	}
	var employees []Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return employees, nil
}

func (r *FileRepository) Save(employees []Employee) error {
	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return fmt.Errorf("encode employees: %w", err)
	}
	return r.docs.Write(documentName, data)
}

// ChunkedRepository spreads the collection across per-record keys so no
// single value can exceed the backend's quota. Layout:
//
//	<namespace>-count  number of records
//	<namespace>-0 ... <namespace>-(count-1)  one record each
//
// The chunk index is a storage detail, not the record's identifier.
type ChunkedRepository struct {
	kv        storage.KeyValue
	namespace string
	log       *zap.Logger
}

func NewChunkedRepository(kv storage.KeyValue, namespace string, logger *zap.Logger) *ChunkedRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &ChunkedRepository{kv: kv, namespace: namespace, log: logger}
}

func (r *ChunkedRepository) countKey() string { return r.namespace + "-count" }

func (r *ChunkedRepository) chunkKey(i int) string {
	return fmt.Sprintf("%s-%d", r.namespace, i)
}

// Load reads the chunk set. Chunks that are missing or fail to decode
// are skipped so one unreadable record cannot take the roster down with
// it. When no count key exists yet the legacy whole-blob key is read and
// migrated to chunks; the legacy key is removed afterwards, so the
// migration runs at most once.
func (r *ChunkedRepository) Load() ([]Employee, error) {
	raw, err := r.kv.Get(r.countKey())
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return r.migrateLegacy()
		}
		return nil, fmt.Errorf("read chunk count: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		r.log.Warn("chunk count key is unreadable, treating store as empty", zap.String("value", raw))
		return []Employee{}, nil
	}

	employees := make([]Employee, 0, count)
	for i := 0; i < count; i++ {
		chunk, err := r.kv.Get(r.chunkKey(i))
		if err != nil {
			if !errors.Is(err, storage.ErrNotExist) {
				r.log.Warn("chunk unreadable, skipping", zap.Int("index", i), zap.Error(err))
			}
			continue
		}
		var emp Employee
		if err := json.Unmarshal([]byte(chunk), &emp); err != nil {
			r.log.Warn("chunk failed to decode, skipping", zap.Int("index", i), zap.Error(err))
			continue
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// Save replaces the entire chunk set: clear every key under the
// namespace, then write a fresh count key and fresh chunks. A failure
// between clear and rewrite leaves the stored collection empty; callers
// keep their in-memory roster as the session's source of truth.
func (r *ChunkedRepository) Save(employees []Employee) error {
	keys, err := r.kv.Keys()
	if err != nil {
		return fmt.Errorf("list chunk keys: %w", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, r.namespace) {
			continue
		}
		if err := r.kv.Remove(key); err != nil {
			return fmt.Errorf("clear chunk %q: %w", key, err)
		}
	}

	if err := r.kv.Set(r.countKey(), strconv.Itoa(len(employees))); err != nil {
		return fmt.Errorf("write chunk count: %w", err)
	}
	for i, emp := range employees {
		data, err := json.Marshal(emp)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		if err := r.kv.Set(r.chunkKey(i), string(data)); err != nil {
			return fmt.Errorf("write chunk %d: %w", i, err)
		}
	}
	return nil
}

// migrateLegacy converts a pre-chunked single-blob collection into the
// chunked layout. A corrupt legacy blob is left in place and reported as
// an empty roster rather than destroyed.
func (r *ChunkedRepository) migrateLegacy() ([]Employee, error) {
	blob, err := r.kv.Get(r.namespace)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return []Employee{}, nil
		}
		return nil, fmt.Errorf("read legacy collection: %w", err)
	}

	var employees []Employee
	if err := json.Unmarshal([]byte(blob), &employees); err != nil {
		r.log.Warn("legacy collection failed to decode, leaving it untouched", zap.Error(err))
		return []Employee{}, nil
	}

	if err := r.Save(employees); err != nil {
		return nil, fmt.Errorf("write migrated chunks: %w", err)
	}
	if err := r.kv.Remove(r.namespace); err != nil {
		return nil, fmt.Errorf("remove legacy key: %w", err)
	}
	r.log.Info("migrated legacy collection to chunked storage", zap.Int("records", len(employees)))
	return employees, nil
}
