package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
)

const defaultActivityLimit = 20

// EventService defines event registry operations needed by MCP.
type EventService interface {
	Add(ctx context.Context, f event.Fields) (*event.Event, error)
	Edit(ctx context.Context, identifier string, f event.Fields) (*event.Event, error)
	Delete(ctx context.Context, identifier string) (*event.Event, error)
	Find(identifier string) (event.Event, bool)
	ListAll() []event.Event
	ListByDate(date string) ([]event.Event, error)
	Search(keyword string) []event.Event
	Upcoming(today time.Time) []event.Event
	Suggest(date string) ([]string, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP tool calls.
type Handler struct {
	events   EventService
	activity ActivityService
	now      func() time.Time
}

// NewHandler creates a new MCP handler. activitySvc may be nil.
func NewHandler(events EventService, activitySvc ActivityService, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		events:   events,
		activity: activitySvc,
		now:      now,
	}
}

// Handle dispatches a tool call to the domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "add_event":
		var req AddEventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ev, err := h.events.Add(ctx, event.Fields{
			Name:     req.Name,
			Date:     req.Date,
			Time:     req.Time,
			Type:     req.Type,
			Location: req.Location,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ev, nil
	case "edit_event":
		var req EditEventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ev, err := h.events.Edit(ctx, req.Identifier, event.Fields{
			Name:     req.Name,
			Date:     req.Date,
			Time:     req.Time,
			Type:     req.Type,
			Location: req.Location,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return ev, nil
	case "delete_event":
		var req IdentifierParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ev, err := h.events.Delete(ctx, req.Identifier)
		if err != nil {
			return nil, mapError(err)
		}
		return DeleteEventResponse{Deleted: *ev}, nil
	case "find_event":
		var req IdentifierParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ev, ok := h.events.Find(req.Identifier)
		if !ok {
			return nil, mapError(event.ErrNotFound)
		}
		return ev, nil
	case "list_events":
		var req ListEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Date == "" {
			return listResponse(h.events.ListAll()), nil
		}
		events, err := h.events.ListByDate(req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		return listResponse(events), nil
	case "search_events":
		var req SearchEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return listResponse(h.events.Search(req.Keyword)), nil
	case "suggest_slots":
		var req SuggestSlotsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		slots, err := h.events.Suggest(req.Date)
		if err != nil {
			return nil, mapError(err)
		}
		if slots == nil {
			slots = []string{}
		}
		return SuggestSlotsResponse{Date: req.Date, Slots: slots}, nil
	case "upcoming_events":
		var req UpcomingEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		today, err := h.today(req.Today)
		if err != nil {
			return nil, mapError(err)
		}
		return listResponse(h.events.Upcoming(today)), nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.activity == nil {
			return []ActivityEntryResponse{}, nil
		}
		opts := activity.ListActivityOptions{
			Limit:  req.Limit,
			Offset: req.Offset,
		}
		if opts.Limit == 0 {
			opts.Limit = defaultActivityLimit
		}
		if req.EventID != "" {
			opts.EventID = &req.EventID
		}
		if req.ActivityType != "" {
			typ := activity.ActivityType(req.ActivityType)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				EventID:   stringValue(entry.EventID),
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) today(value string) (time.Time, error) {
	if value != "" {
		return event.ParseDate(value)
	}
	now := h.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("invalid arguments: %v", err)}
	}
	return nil
}

func listResponse(events []event.Event) EventListResponse {
	if events == nil {
		events = []event.Event{}
	}
	return EventListResponse{Events: events, Count: len(events)}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
