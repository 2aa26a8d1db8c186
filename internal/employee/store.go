package employee

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"BirthdayRoster/internal/imaging"
)

// Store owns the canonical roster. The in-memory slice is the session's
// source of truth; every mutation rewrites the whole collection through
// the repository and a failed write keeps the memory state so the caller
// can warn the user without losing data. Mutations are serialized by the
// store's mutex.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	employees []Employee
	loaded    bool
	normalize func(string) (string, error)
	now       func() time.Time
	log       *zap.Logger
}

func NewStore(repo Repository, logger *zap.Logger) *Store {
	return &Store{
		repo:      repo,
		normalize: imaging.Normalize,
		now:       time.Now,
		log:       logger,
	}
}

// Load returns all records. A backend that is unreadable or corrupt
// degrades to an empty roster, never an error.
func (s *Store) Load() []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return copyEmployees(s.employees)
}

// Add validates the draft, normalizes the photo, assigns a fresh
// identifier and persists the updated collection. The stored record is
// returned even when persistence fails, alongside the write error.
func (s *Store) Add(draft Draft) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	if err := validateDraft(draft, s.now()); err != nil {
		return Employee{}, err
	}
	normalized, err := s.normalize(draft.ImageURL)
	if err != nil {
		return Employee{}, &ValidationError{Field: "imageUrl", Reason: err.Error()}
	}

	emp := Employee{
		ID:         uuid.NewString(),
		Name:       draft.Name,
		CostCenter: draft.CostCenter,
		ImageURL:   normalized,
		EntryDate:  draft.EntryDate,
		BirthDate:  draft.BirthDate,
	}
	s.employees = append(s.employees, emp)
	if err := s.persist(); err != nil {
		return emp, err
	}
	s.log.Info("employee added", zap.String("id", emp.ID), zap.String("costCenter", emp.CostCenter))
	return emp, nil
}

// Update merges the given fields into the record matching id. A new
// photo is renormalized before storage. An unknown id is a no-op, not an
// error.
func (s *Store) Update(id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if err := validatePatch(patch, s.now()); err != nil {
		return err
	}

	emp := &s.employees[idx]
	if patch.Name != nil {
		emp.Name = *patch.Name
	}
	if patch.CostCenter != nil {
		emp.CostCenter = *patch.CostCenter
	}
	if patch.ImageURL != nil {
		normalized, err := s.normalize(*patch.ImageURL)
		if err != nil {
			return &ValidationError{Field: "imageUrl", Reason: err.Error()}
		}
		emp.ImageURL = normalized
	}
	if patch.EntryDate != nil {
		emp.EntryDate = *patch.EntryDate
	}
	if patch.BirthDate != nil {
		emp.BirthDate = *patch.BirthDate
	}
	return s.persist()
}

// Delete removes the record matching id; unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.employees = append(s.employees[:idx], s.employees[idx+1:]...)
	return s.persist()
}

// CostCenters lists the distinct department codes currently present, in
// ascending lexical order.
func (s *Store) CostCenters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	seen := map[string]struct{}{}
	for _, emp := range s.employees {
		seen[emp.CostCenter] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ByCostCenter filters the roster by exact department-code match.
func (s *Store) ByCostCenter(code string) []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	var out []Employee
	for _, emp := range s.employees {
		if emp.CostCenter == code {
			out = append(out, emp)
		}
	}
	return out
}

func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	employees, err := s.repo.Load()
	if err != nil {
		s.log.Warn("roster unreadable, starting with empty collection", zap.Error(err))
		employees = []Employee{}
	}
	s.employees = employees
	s.loaded = true
}

func (s *Store) persist() error {
	if err := s.repo.Save(copyEmployees(s.employees)); err != nil {
		s.log.Error("roster write failed, in-memory state retained", zap.Error(err))
		return fmt.Errorf("persist roster: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, emp := range s.employees {
		if emp.ID == id {
			return i
		}
	}
	return -1
}

func copyEmployees(in []Employee) []Employee {
	out := make([]Employee, len(in))
	copy(out, in)
	return out
}
