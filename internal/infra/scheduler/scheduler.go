// Package scheduler drives the daily automation: trend checks, content
// generation slots, the Friday premium delivery, and a morning stats report.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Jobs are the automation entry points the scheduler invokes.
type Jobs interface {
	SpotTrends(ctx context.Context) error
	GenerateContent(ctx context.Context) error
	SendWeeklyPlans(ctx context.Context) error
	ReportStats(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	jobs   Jobs
	logger *log.Logger
}

func New(jobs Jobs, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		jobs:   jobs,
		logger: logger,
	}
}

// Register installs the cron entries. trendTime and contentTimes are "HH:MM"
// wall-clock times; weekly delivery is fixed to Friday 09:00 and the stats
// report to 08:00 daily.
func (s *Scheduler) Register(trendTime string, contentTimes []string) error {
	spec, err := clockToCron(trendTime)
	if err != nil {
		return fmt.Errorf("trend check time: %w", err)
	}
	if _, err := s.cron.AddFunc(spec, s.wrap("trend-check", s.jobs.SpotTrends)); err != nil {
		return err
	}

	for _, t := range contentTimes {
		spec, err := clockToCron(t)
		if err != nil {
			return fmt.Errorf("content generation time %q: %w", t, err)
		}
		if _, err := s.cron.AddFunc(spec, s.wrap("content-generation", s.jobs.GenerateContent)); err != nil {
			return err
		}
	}

	if _, err := s.cron.AddFunc("0 9 * * 5", s.wrap("weekly-delivery", s.jobs.SendWeeklyPlans)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 8 * * *", s.wrap("stats-report", s.jobs.ReportStats)); err != nil {
		return err
	}
	return nil
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("scheduler running", "entries", len(s.cron.Entries()))

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// wrap adds panic recovery and error logging around a job so a single bad
// run never takes the scheduler down.
func (s *Scheduler) wrap(name string, job func(context.Context) error) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("job panicked", "job", name, "panic", r)
			}
		}()

		s.logger.Info("job starting", "job", name)
		if err := job(context.Background()); err != nil {
			s.logger.Error("job failed", "job", name, "error", err)
			return
		}
		s.logger.Info("job finished", "job", name)
	}
}

// clockToCron converts "HH:MM" to a standard 5-field cron spec.
func clockToCron(clock string) (string, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", clock)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hour, &minute); err != nil {
		return "", fmt.Errorf("expected HH:MM, got %q", clock)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("out of range clock time %q", clock)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
