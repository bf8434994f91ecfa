package event

import (
	"context"

	"github.com/rpggio/eventdesk/internal/domain/activity"
)

// Store persists the whole event set.
type Store interface {
	LoadAll(ctx context.Context) ([]Event, error)
	SaveAll(ctx context.Context, events []Event) error
}

// ActivityRepository logs registry mutations.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Recorder receives mutation outcomes for metrics.
type Recorder interface {
	ObserveMutation(op string, err error)
	SetEventCount(n int)
}
