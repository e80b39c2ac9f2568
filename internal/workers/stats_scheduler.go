package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/wanderlust-tours/wanderlust/internal/tasks"
)

// StatsScheduler enqueues the stats roll-up whenever the cron schedule is due
type StatsScheduler struct {
	client   tasks.Enqueuer
	schedule cron.Schedule
	logger   zerolog.Logger
	nextRun  time.Time
}

// NewStatsScheduler parses the standard 5-field cron expression
func NewStatsScheduler(client tasks.Enqueuer, cronExpr string, logger zerolog.Logger) (*StatsScheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", cronExpr, err)
	}

	return &StatsScheduler{
		client:   client,
		schedule: schedule,
		logger:   logger.With().Str("component", "stats_scheduler").Logger(),
	}, nil
}

// Run checks every minute until ctx is cancelled. The first roll-up is
// enqueued immediately.
func (s *StatsScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	s.Tick(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// Tick enqueues a roll-up if one is due at now. It reports whether a task was
// enqueued.
func (s *StatsScheduler) Tick(now time.Time) bool {
	if !s.nextRun.IsZero() && now.Before(s.nextRun) {
		s.logger.Debug().Time("next_run_at", s.nextRun).Msg("Stats roll-up not due yet")
		return false
	}

	task, err := tasks.NewStatsRollupTask("scheduler")
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create stats roll-up task")
		return false
	}

	// Advance even on failure so a broken broker is not hammered every minute
	s.nextRun = s.schedule.Next(now)

	if _, err := s.client.Enqueue(task, asynq.Queue("low"), asynq.Unique(time.Minute)); err != nil {
		s.logger.Error().Err(err).Time("next_run_at", s.nextRun).Msg("Failed to enqueue stats roll-up")
		return false
	}

	s.logger.Info().Time("next_run_at", s.nextRun).Msg("Stats roll-up enqueued")
	return true
}

// NextRun returns when the next roll-up is due
func (s *StatsScheduler) NextRun() time.Time {
	return s.nextRun
}
