package activity

import "time"

// ActivityType represents the kind of registry mutation recorded.
type ActivityType string

const (
	TypeEventAdded   ActivityType = "event_added"
	TypeEventEdited  ActivityType = "event_edited"
	TypeEventDeleted ActivityType = "event_deleted"
	TypeReminderSent ActivityType = "reminder_sent"
)

// ActivityEntry represents one line of the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	EventID      *string      `json:"event_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
