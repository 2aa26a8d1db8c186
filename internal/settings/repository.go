package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"BirthdayRoster/internal/config"
	"BirthdayRoster/internal/storage"
)

const documentName = "settings.json"

// Key names on the key/value backend. The settings document is small, so
// each setting is one whole value; no chunking needed.
const (
	keyNotificationEmail = "employee-manager-notification-email"
	keyEmailSettings     = "employee-manager-email-settings"
	keyLastNotification  = "employee-manager-last-notification"
)

// Repository persists the settings document. Loads never fail: anything
// unreadable degrades to the default shape.
type Repository interface {
	Load() (Settings, error)
	Save(Settings) error
}

func NewRepository(cfg *config.StorageConfig, logger *zap.Logger) (Repository, error) {
	switch cfg.Mode {
	case config.ModeKV:
		kv, err := storage.NewDirKV(cfg.KVDir(), cfg.MaxValueSize)
		if err != nil {
			return nil, err
		}
		return NewKVRepository(kv, logger), nil
	case config.ModeMemory:
		return NewKVRepository(storage.NewMemKV(cfg.MaxValueSize), logger), nil
	default:
		docs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewFileRepository(docs, logger), nil
	}
}

// FileRepository keeps the settings as one JSON document.
type FileRepository struct {
	docs storage.DocumentStore
	log  *zap.Logger
}

func NewFileRepository(docs storage.DocumentStore, logger *zap.Logger) *FileRepository {
	return &FileRepository{docs: docs, log: logger}
}

func (r *FileRepository) Load() (Settings, error) {
	data, err := r.docs.Read(documentName)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			r.log.Warn("settings unreadable, using defaults", zap.Error(err))
		}
		return Default(), nil
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		r.log.Warn("settings failed to decode, using defaults", zap.Error(err))
		return Default(), nil
	}
	s.normalize()
	return s, nil
}

func (r *FileRepository) Save(s Settings) error {
	s.normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return r.docs.Write(documentName, data)
}

// KVRepository spreads the settings over one key per setting name.
type KVRepository struct {
	kv  storage.KeyValue
	log *zap.Logger
}

func NewKVRepository(kv storage.KeyValue, logger *zap.Logger) *KVRepository {
	return &KVRepository{kv: kv, log: logger}
}

func (r *KVRepository) Load() (Settings, error) {
	s := Default()

	if raw, err := r.kv.Get(keyNotificationEmail); err == nil {
		// Stored JSON-encoded; older installs kept the bare string.
		var email string
		if jsonErr := json.Unmarshal([]byte(raw), &email); jsonErr == nil {
			s.NotificationEmail = email
		} else {
			s.NotificationEmail = raw
		}
	}

	if raw, err := r.kv.Get(keyEmailSettings); err == nil {
		var es EmailSettings
		if jsonErr := json.Unmarshal([]byte(raw), &es); jsonErr != nil {
			r.log.Warn("email settings failed to decode, using defaults", zap.Error(jsonErr))
		} else {
			s.EmailSettings = es
		}
	}

	if raw, err := r.kv.Get(keyLastNotification); err == nil {
		s.LastNotification = raw
	}

	s.normalize()
	return s, nil
}

func (r *KVRepository) Save(s Settings) error {
	s.normalize()

	email, err := json.Marshal(s.NotificationEmail)
	if err != nil {
		return fmt.Errorf("encode notification email: %w", err)
	}
	if err := r.kv.Set(keyNotificationEmail, string(email)); err != nil {
		return fmt.Errorf("write notification email: %w", err)
	}

	es, err := json.Marshal(s.EmailSettings)
	if err != nil {
		return fmt.Errorf("encode email settings: %w", err)
	}
	if err := r.kv.Set(keyEmailSettings, string(es)); err != nil {
		return fmt.Errorf("write email settings: %w", err)
	}

	if s.LastNotification == "" {
		if err := r.kv.Remove(keyLastNotification); err != nil {
			return fmt.Errorf("clear last notification: %w", err)
		}
		return nil
	}
	if err := r.kv.Set(keyLastNotification, s.LastNotification); err != nil {
		return fmt.Errorf("write last notification: %w", err)
	}
	return nil
}
