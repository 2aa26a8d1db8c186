package employee

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Employee represents one stored employee record. Dates are kept in ISO
// form (YYYY-MM-DD) to match the persisted document shape.
type Employee struct {
	ID         string `json:"id"`                  // Opaque unique identifier, assigned on create
	Name       string `json:"name"`                // Display name, never empty
	CostCenter string `json:"costCenter"`          // 3-digit department code
	ImageURL   string `json:"imageUrl"`            // Normalized photo as a data URL
	EntryDate  string `json:"entryDate,omitempty"` // Date the employee joined
	BirthDate  string `json:"birthDate,omitempty"` // Never in the future
}

// Draft carries the fields of a record to be created.
type Draft struct {
	Name       string `json:"name"`
	CostCenter string `json:"costCenter"`
	ImageURL   string `json:"imageUrl"`
	EntryDate  string `json:"entryDate,omitempty"`
	BirthDate  string `json:"birthDate,omitempty"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name       *string `json:"name,omitempty"`
	CostCenter *string `json:"costCenter,omitempty"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	EntryDate  *string `json:"entryDate,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"`
}

// ValidationError reports a rejected field before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

const dateLayout = "2006-01-02"

var costCenterPattern = regexp.MustCompile(`^\d{3}$`)

func validateDraft(d Draft, now time.Time) error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !costCenterPattern.MatchString(d.CostCenter) {
		return &ValidationError{Field: "costCenter", Reason: "must be exactly 3 digits"}
	}
	if d.ImageURL == "" {
		return &ValidationError{Field: "imageUrl", Reason: "photo is required"}
	}
	if d.EntryDate != "" {
		if _, err := time.Parse(dateLayout, d.EntryDate); err != nil {
			return &ValidationError{Field: "entryDate", Reason: "must be a YYYY-MM-DD date"}
		}
	}
	if d.BirthDate != "" {
		if err := validateBirthDate(d.BirthDate, now); err != nil {
			return err
		}
	}
	return nil
}

func validatePatch(p Patch, now time.Time) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.CostCenter != nil && !costCenterPattern.MatchString(*p.CostCenter) {
		return &ValidationError{Field: "costCenter", Reason: "must be exactly 3 digits"}
	}
	if p.ImageURL != nil && *p.ImageURL == "" {
		return &ValidationError{Field: "imageUrl", Reason: "photo must not be empty"}
	}
	if p.EntryDate != nil && *p.EntryDate != "" {
		if _, err := time.Parse(dateLayout, *p.EntryDate); err != nil {
			return &ValidationError{Field: "entryDate", Reason: "must be a YYYY-MM-DD date"}
		}
	}
	if p.BirthDate != nil && *p.BirthDate != "" {
		if err := validateBirthDate(*p.BirthDate, now); err != nil {
			return err
		}
	}
	return nil
}

func validateBirthDate(value string, now time.Time) error {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return &ValidationError{Field: "birthDate", Reason: "must be a YYYY-MM-DD date"}
	}
	if t.After(now) {
		return &ValidationError{Field: "birthDate", Reason: "must not be in the future"}
	}
	return nil
}
