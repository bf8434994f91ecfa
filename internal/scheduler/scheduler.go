// Package scheduler runs reminder delivery on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rpggio/eventdesk/internal/domain/reminder"
	"github.com/rpggio/eventdesk/internal/repository"
)

// Reminders is the reminder service as seen by the scheduler.
type Reminders interface {
	Send(ctx context.Context, sender repository.Sender) (*reminder.Report, error)
}

// Scheduler triggers a reminder run on every tick of a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	reminders Reminders
	sender    repository.Sender
	logger    *slog.Logger
	timeout   time.Duration
}

// New parses schedule (standard five-field cron) and registers the run.
func New(schedule string, reminders Reminders, sender repository.Sender, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{
		cron:      cron.New(),
		reminders: reminders,
		sender:    sender,
		logger:    logger,
		timeout:   5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins ticking in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "next", s.Next())
}

// Stop halts the schedule and waits for a running job, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("reminder run still in progress at shutdown")
	}
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce performs one reminder run and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) *reminder.Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.reminders.Send(ctx, s.sender)
	switch {
	case errors.Is(err, reminder.ErrNoUpcoming), errors.Is(err, reminder.ErrNoRecipients):
		s.logger.Info("scheduled reminders skipped", "reason", err)
		return nil
	case err != nil:
		s.logger.Error("scheduled reminders failed", "error", err)
		return nil
	}

	s.logger.Info("scheduled reminders sent", "sent", len(report.Sent), "failed", len(report.Failed), "recipients", len(report.Recipients))
	return report
}
