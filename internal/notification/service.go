package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"BirthdayRoster/internal/config"
	"BirthdayRoster/internal/employee"
	"BirthdayRoster/internal/settings"
)

const dateLayout = "2006-01-02"

// ErrAllDispatchesFailed reports a sweep that found matches and
// recipients but delivered nothing; the dedup date is left untouched so
// a later check the same day may retry.
var ErrAllDispatchesFailed = errors.New("all birthday notifications failed")

// Service runs the birthday sweep: it matches today's month and day
// against every record's birth date (year ignored), resolves the
// recipient set per matched record and sends one message per record.
// Deduplication is per sweep: the persisted last-notification date is
// written only when at least one dispatch succeeded.
type Service struct {
	employees *employee.Store
	settings  *settings.Store
	mailer    config.Mailer
	log       *zap.Logger
}

func NewService(employees *employee.Store, settingsStore *settings.Store, mailer config.Mailer, logger *zap.Logger) *Service {
	return &Service{
		employees: employees,
		settings:  settingsStore,
		mailer:    mailer,
		log:       logger,
	}
}

// RunCheck performs one sweep for the given time. It reports whether the
// sweep fired, i.e. at least one notification was delivered.
func (s *Service) RunCheck(ctx context.Context, now time.Time) (bool, error) {
	today := now.Format(dateLayout)
	cfg := s.settings.Get()
	if cfg.LastNotification == today {
		s.log.Debug("birthday sweep already fired today", zap.String("date", today))
		return false, nil
	}

	matches := matchBirthdays(s.employees.Load(), now)
	if len(matches) == 0 {
		return false, nil
	}
	s.log.Info("birthday matches found", zap.Int("count", len(matches)), zap.String("date", today))

	sent, attempted := 0, 0
	for _, emp := range matches {
		recipients := ResolveRecipients(cfg.EmailSettings, emp.CostCenter)
		if len(recipients) == 0 {
			s.log.Warn("no recipients configured for match, skipping",
				zap.String("id", emp.ID), zap.String("costCenter", emp.CostCenter))
			continue
		}
		attempted++
		subject, body := composeMessage(emp)
		if err := s.mailer.Send(ctx, recipients, subject, body); err != nil {
			s.log.Error("birthday notification dispatch failed",
				zap.String("id", emp.ID), zap.Error(err))
			continue
		}
		sent++
	}

	if sent == 0 {
		if attempted == 0 {
			return false, nil
		}
		return false, ErrAllDispatchesFailed
	}

	if err := s.settings.SetLastNotification(today); err != nil {
		// The sweep still fired; the next check may fire again today.
		s.log.Warn("failed to persist last-notification date", zap.Error(err))
	}
	return true, nil
}

// matchBirthdays returns the records whose birth-date month and day
// equal now's. The birth year is ignored; unparsable dates never match.
func matchBirthdays(employees []employee.Employee, now time.Time) []employee.Employee {
	var matches []employee.Employee
	for _, emp := range employees {
		if emp.BirthDate == "" {
			continue
		}
		birth, err := time.Parse(dateLayout, emp.BirthDate)
		if err != nil {
			continue
		}
		if birth.Month() == now.Month() && birth.Day() == now.Day() {
			matches = append(matches, emp)
		}
	}
	return matches
}

// ResolveRecipients builds the recipient set for one record: every
// non-blank leadership address plus the address mapped to the record's
// cost center, if one is configured. Duplicates are collapsed.
func ResolveRecipients(cfg settings.EmailSettings, costCenter string) []string {
	var recipients []string
	seen := map[string]struct{}{}
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}

	for _, addr := range cfg.GF {
		add(addr)
	}
	for _, de := range cfg.DepartmentEmails {
		if de.CostCenter == costCenter {
			add(de.Email)
			break
		}
	}
	return recipients
}

func composeMessage(emp employee.Employee) (subject, body string) {
	subject = fmt.Sprintf("Birthday today: %s", emp.Name)
	body = fmt.Sprintf("%s (cost center %s) has their birthday today.", emp.Name, emp.CostCenter)
	return subject, body
}
