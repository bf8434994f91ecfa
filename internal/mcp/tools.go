package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func stringProp(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Mutations
		{
			Name:        "add_event",
			Description: "Add an event. Every event occupies one hour from its start; overlapping events are rejected with suggested free start times",
			InputSchema: objectSchema(map[string]any{
				"name":     stringProp("Event name, unique per date (case-insensitive)"),
				"date":     stringProp("Date as DD-MM-YYYY"),
				"time":     stringProp("Start time as HH:MM (24h)"),
				"type":     stringProp("Free-form category such as meeting or social"),
				"location": stringProp("Optional location"),
			}, "name", "date", "time", "type"),
		},
		{
			Name:        "edit_event",
			Description: "Edit an event found by id or name. Omitted fields keep their current value; the id never changes",
			InputSchema: objectSchema(map[string]any{
				"identifier": stringProp("Event id or name"),
				"name":       stringProp("New name"),
				"date":       stringProp("New date as DD-MM-YYYY"),
				"time":       stringProp("New start time as HH:MM"),
				"type":       stringProp("New type"),
				"location":   stringProp("New location"),
			}, "identifier"),
		},
		{
			Name:        "delete_event",
			Description: "Delete an event found by id or name",
			InputSchema: objectSchema(map[string]any{
				"identifier": stringProp("Event id or name"),
			}, "identifier"),
		},

		// Queries
		{
			Name:        "find_event",
			Description: "Look up one event by exact id or case-insensitive name",
			InputSchema: objectSchema(map[string]any{
				"identifier": stringProp("Event id or name"),
			}, "identifier"),
		},
		{
			Name:        "list_events",
			Description: "List events in chronological order, optionally only those on one date",
			InputSchema: objectSchema(map[string]any{
				"date": stringProp("Optional date as DD-MM-YYYY"),
			}),
		},
		{
			Name:        "search_events",
			Description: "Find events whose name or type contains a keyword (case-insensitive)",
			InputSchema: objectSchema(map[string]any{
				"keyword": stringProp("Keyword to match"),
			}, "keyword"),
		},
		{
			Name:        "suggest_slots",
			Description: "Suggest up to three free hourly start times on a date, earliest first",
			InputSchema: objectSchema(map[string]any{
				"date": stringProp("Date as DD-MM-YYYY"),
			}, "date"),
		},
		{
			Name:        "upcoming_events",
			Description: "List the events dated the day after today",
			InputSchema: objectSchema(map[string]any{
				"today": stringProp("Optional reference date as DD-MM-YYYY (defaults to the server's current date)"),
			}),
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent add/edit/delete and reminder activity, newest first",
			InputSchema: objectSchema(map[string]any{
				"event_id": stringProp("Only activity for this event id"),
				"activity_type": map[string]any{
					"type":        "string",
					"description": "Only activity of this type",
					"enum":        []string{"event_added", "event_edited", "event_deleted", "reminder_sent"},
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum entries (default 20)",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Entries to skip",
				},
			}),
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *sdkmcp.CallToolResult {
	text := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if data, mErr := json.Marshal(apiErr); mErr == nil {
			text = string(data)
		}
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}
