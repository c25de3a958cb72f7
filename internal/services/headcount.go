package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teamkasa/teamkasa/internal/config"
	"github.com/teamkasa/teamkasa/pkg/logger"
	"gorm.io/gorm"
)

// HeadcountService periodically counts registered users and logs the delta
// against the previous run. Purely observational; it never writes domain data.
type HeadcountService struct {
	users     *UserService
	schedule  string
	scheduler *cron.Cron

	mu        sync.Mutex
	lastCount int64
	hasCount  bool
}

func NewHeadcountService(db *gorm.DB, cfg *config.HeadcountConfig) *HeadcountService {
	return &HeadcountService{
		users:    NewUserService(db),
		schedule: cfg.Schedule,
	}
}

// Start schedules the counter job. The default schedule is @hourly.
func (s *HeadcountService) Start() error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.schedule, s.run)
	if err != nil {
		return err
	}
	s.scheduler.Start()
	logger.Info().Str("schedule", s.schedule).Msg("headcount job started")
	return nil
}

// Stop halts the scheduler.
func (s *HeadcountService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		logger.Info().Msg("headcount job stopped")
	}
}

func (s *HeadcountService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("headcount run failed")
		return
	}

	count := int64(len(ids))

	s.mu.Lock()
	delta := count - s.lastCount
	first := !s.hasCount
	s.lastCount = count
	s.hasCount = true
	s.mu.Unlock()

	event := logger.Info().Int64("users", count)
	if !first {
		event = event.Int64("delta", delta)
	}
	event.Msg("registered user headcount")
}
