package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"BirthdayRoster/internal/config"
)

// Scheduler drives the daily birthday sweep: one check on process start,
// then one at the configured wall-clock hour every day. Start is
// idempotent, so a re-entrant initialization cannot create a second
// timer.
type Scheduler struct {
	service *Service
	hour    int
	log     *zap.Logger

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewScheduler(service *Service, cfg *config.ScheduleConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		hour:    cfg.CheckHour,
		done:    make(chan struct{}),
		log:     logger,
	}
}

// Start attaches the scheduler to the application lifecycle. The timer
// goroutine lives until shutdown.
func (s *Scheduler) Start(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.ensureScheduled()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.started {
				close(s.done)
				s.started = false
				s.done = make(chan struct{})
			}
			return nil
		},
	})
}

func (s *Scheduler) ensureScheduled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn("birthday scheduler already running, not starting a second timer")
		return
	}
	s.started = true
	s.log.Info("starting birthday scheduler", zap.Int("checkHour", s.hour))
	go s.run(s.done)
}

func (s *Scheduler) run(done <-chan struct{}) {
	// Check once on process start.
	s.check()

	first := time.Until(NextRunAfter(time.Now(), s.hour))
	timer := time.NewTimer(first)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.check()
	case <-done:
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.check()
		case <-done:
			return
		}
	}
}

func (s *Scheduler) check() {
	fired, err := s.service.RunCheck(context.Background(), time.Now())
	if err != nil {
		s.log.Error("scheduled birthday check failed", zap.Error(err))
		return
	}
	if fired {
		s.log.Info("scheduled birthday check fired notifications")
	}
}

// NextRunAfter finds the next occurrence of the given wall-clock hour
// strictly after now, in now's location.
func NextRunAfter(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
