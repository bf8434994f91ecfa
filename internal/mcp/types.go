package mcp

import (
	"time"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
)

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

type AddEventParams struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

type EditEventParams struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
	Type       string `json:"type,omitempty"`
	Location   string `json:"location,omitempty"`
}

type IdentifierParams struct {
	Identifier string `json:"identifier"`
}

type ListEventsParams struct {
	Date string `json:"date,omitempty"`
}

type SearchEventsParams struct {
	Keyword string `json:"keyword"`
}

type SuggestSlotsParams struct {
	Date string `json:"date"`
}

type UpcomingEventsParams struct {
	Today string `json:"today,omitempty"`
}

type GetRecentActivityParams struct {
	EventID      string `json:"event_id,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

type EventListResponse struct {
	Events []event.Event `json:"events"`
	Count  int           `json:"count"`
}

type SuggestSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type DeleteEventResponse struct {
	Deleted event.Event `json:"deleted"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	EventID   string                `json:"event_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}
