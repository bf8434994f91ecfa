package repository

import (
	"context"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
)

// EventStore persists the complete event set
type EventStore interface {
	LoadAll(ctx context.Context) ([]event.Event, error)
	SaveAll(ctx context.Context, events []event.Event) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// AttendeeDirectory lists and records reminder recipients
type AttendeeDirectory interface {
	ListEmails(ctx context.Context) ([]string, error)
	AddEmail(ctx context.Context, email string) error
}

// Sender delivers one reminder for one event to a set of recipients
type Sender interface {
	Send(ctx context.Context, recipients []string, ev event.Event) error
}
