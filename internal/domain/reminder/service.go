package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/repository"
)

const defaultSendTimeout = 30 * time.Second

// Events is the read side of the event registry used for reminders.
type Events interface {
	Upcoming(today time.Time) []event.Event
}

// ActivityLog records delivered reminders.
type ActivityLog interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Recorder receives per-event delivery outcomes.
type Recorder interface {
	ObserveReminder(err error)
}

// Failure records an event whose reminder could not be delivered.
type Failure struct {
	Event event.Event
	Err   error
}

// Report summarizes one reminder run.
type Report struct {
	Recipients []string
	Sent       []event.Event
	Failed     []Failure
}

// Service sends reminders for tomorrow's events to every attendee.
type Service struct {
	events      Events
	directory   repository.AttendeeDirectory
	activities  ActivityLog
	logger      *slog.Logger
	recorder    Recorder
	now         func() time.Time
	sendTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the current time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithSendTimeout bounds each per-event send.
func WithSendTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// WithRecorder reports delivery outcomes to rec.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) {
		s.recorder = rec
	}
}

// NewService creates a reminder service. activities may be nil.
func NewService(events Events, directory repository.AttendeeDirectory, activities ActivityLog, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		events:      events,
		directory:   directory,
		activities:  activities,
		logger:      logger,
		now:         time.Now,
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upcoming returns the events dated tomorrow.
func (s *Service) Upcoming(_ context.Context) []event.Event {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.events.Upcoming(today)
}

// Send delivers one reminder per upcoming event to the full attendee list.
// A failed event does not stop the others; failures are collected in the
// report.
func (s *Service) Send(ctx context.Context, sender repository.Sender) (*Report, error) {
	upcoming := s.Upcoming(ctx)
	if len(upcoming) == 0 {
		return nil, ErrNoUpcoming
	}

	recipients, err := s.directory.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading attendees: %w", err)
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	s.logger.Info("sending reminders", "events", len(upcoming), "recipients", len(recipients))

	report := &Report{Recipients: recipients}
	for _, ev := range upcoming {
		err := s.sendOne(ctx, sender, recipients, ev)
		if s.recorder != nil {
			s.recorder.ObserveReminder(err)
		}
		if err != nil {
			s.logger.Warn("reminder failed", "event", ev.ID, "error", err)
			report.Failed = append(report.Failed, Failure{Event: ev, Err: err})
			continue
		}
		report.Sent = append(report.Sent, ev)
		s.logActivity(ctx, ev, len(recipients))
	}
	return report, nil
}

func (s *Service) sendOne(ctx context.Context, sender repository.Sender, recipients []string, ev event.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return sender.Send(ctx, recipients, ev)
}

func (s *Service) logActivity(ctx context.Context, ev event.Event, recipients int) {
	if s.activities == nil {
		return
	}
	id := ev.ID
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EventID:      &id,
		ActivityType: activity.TypeReminderSent,
		Summary:      fmt.Sprintf("reminder for %s sent to %d attendees", ev.ID, recipients),
		Details:      ev.String(),
	})
	if err != nil {
		s.logger.Warn("logging activity failed", "event", ev.ID, "error", err)
	}
}
