package mocks

import (
	"context"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/stretchr/testify/mock"
)

// EventStore is a mock for repository.EventStore.
type EventStore struct {
	mock.Mock
}

func (m *EventStore) LoadAll(ctx context.Context) ([]event.Event, error) {
	args := m.Called(ctx)
	if events, ok := args.Get(0).([]event.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventStore) SaveAll(ctx context.Context, events []event.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if entries, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// AttendeeDirectory is a mock for repository.AttendeeDirectory.
type AttendeeDirectory struct {
	mock.Mock
}

func (m *AttendeeDirectory) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if emails, ok := args.Get(0).([]string); ok {
		return emails, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttendeeDirectory) AddEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// Sender is a mock for repository.Sender.
type Sender struct {
	mock.Mock
}

func (m *Sender) Send(ctx context.Context, recipients []string, ev event.Event) error {
	args := m.Called(ctx, recipients, ev)
	return args.Error(0)
}
