package settings

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store caches the settings document and writes it back whole on every
// change. Read failures surface as the default shape, never as errors.
type Store struct {
	mu     sync.Mutex
	repo   Repository
	cached *Settings
	log    *zap.Logger
}

func NewStore(repo Repository, logger *zap.Logger) *Store {
	return &Store{repo: repo, log: logger}
}

// Get returns the current settings, loading them lazily on first use.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Save overwrites the whole document.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.normalize()
	return s.write(settings)
}

// UpdateGF replaces the leadership address in one of the fixed slots.
func (s *Store) UpdateGF(index int, email string) error {
	if index < 0 || index >= GFSlots {
		return fmt.Errorf("gf slot %d out of range", index)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.current()
	settings.EmailSettings.GF[index] = email
	return s.write(settings)
}

// UpsertDepartmentEmail sets the single active address for a cost
// center, replacing any existing entry for the same code.
func (s *Store) UpsertDepartmentEmail(costCenter, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.current()
	replaced := false
	for i, de := range settings.EmailSettings.DepartmentEmails {
		if de.CostCenter == costCenter {
			settings.EmailSettings.DepartmentEmails[i].Email = email
			replaced = true
			break
		}
	}
	if !replaced {
		settings.EmailSettings.DepartmentEmails = append(
			settings.EmailSettings.DepartmentEmails,
			DepartmentEmail{Email: email, CostCenter: costCenter},
		)
	}
	return s.write(settings)
}

// RemoveDepartmentEmail drops the mapping for a cost center; unknown
// codes are a no-op.
func (s *Store) RemoveDepartmentEmail(costCenter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.current()
	kept := settings.EmailSettings.DepartmentEmails[:0]
	for _, de := range settings.EmailSettings.DepartmentEmails {
		if de.CostCenter != costCenter {
			kept = append(kept, de)
		}
	}
	settings.EmailSettings.DepartmentEmails = kept
	return s.write(settings)
}

// SetLastNotification records the date of the last successful sweep.
func (s *Store) SetLastNotification(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.current()
	settings.LastNotification = strings.TrimSpace(date)
	return s.write(settings)
}

func (s *Store) current() Settings {
	if s.cached == nil {
		loaded, err := s.repo.Load()
		if err != nil {
			s.log.Warn("settings load failed, using defaults", zap.Error(err))
			loaded = Default()
		}
		s.cached = &loaded
	}
	out := *s.cached
	out.EmailSettings.GF = append([]string(nil), s.cached.EmailSettings.GF...)
	out.EmailSettings.DepartmentEmails = append([]DepartmentEmail(nil), s.cached.EmailSettings.DepartmentEmails...)
	return out
}

func (s *Store) write(settings Settings) error {
	if err := s.repo.Save(settings); err != nil {
		s.log.Error("settings write failed, in-memory state retained", zap.Error(err))
		s.cached = &settings
		return fmt.Errorf("persist settings: %w", err)
	}
	s.cached = &settings
	return nil
}
