package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `eventdesk keeps a registry of one-hour events and refuses double bookings.

Formats:
- Dates are DD-MM-YYYY, times are HH:MM (24h). Anything else is INVALID_FORMAT.
- Events are addressed by their 8-character id or by name (case-insensitive); the first match wins.

Workflow:
1) Look before you write: list_events(date) or suggest_slots(date).
2) add_event / edit_event. On CONFLICT, details.suggestions holds up to three free start times on that date.
3) delete_event when something is cancelled.
4) upcoming_events shows tomorrow; get_recent_activity shows what changed.

Docs:
- eventdesk://docs/scheduling (occupancy, conflicts, suggestions)
- eventdesk://docs/errors (error codes and how to recover)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "eventdesk://docs/scheduling",
		Name:        "docs_scheduling",
		Title:       "Scheduling rules",
		Description: "How events occupy time, when two events conflict, and how free slots are suggested.",
		Content: `# Scheduling rules

## Occupancy

Every event occupies exactly one hour: the half-open window [start, start+60m).
An event at 23:30 runs into 00:30 of the next day and blocks that time too.

## Conflicts

Two events conflict when their windows overlap: max(starts) < min(ends).
Back-to-back events (09:00 and 10:00) do not conflict.
When editing, the event being edited is ignored, so moving an event by a few minutes is fine.
Stored events with a malformed date or time never block anything.

## Uniqueness

Within one date, names are unique ignoring case. Ids are unique across the registry.
Editing does not re-check the name/date pair.

## Suggestions

Candidates are the top of each hour on the requested date, 00:00 to 23:00.
The first three that do not conflict are returned, earliest first.
A fully booked day yields fewer than three (possibly none).
`,
	},
	{
		URI:         "eventdesk://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Error codes returned by the event tools and the usual recovery.",
		Content: `# Error codes

| Code | Meaning | Recovery |
|---|---|---|
| INVALID_FORMAT | date or time is not DD-MM-YYYY / HH:MM | fix the format |
| INVALID_INPUT | a required field is blank or arguments are malformed | supply the field |
| DUPLICATE_KEY | same name already exists on that date | rename or pick another date |
| CONFLICT | the hour overlaps another event | use details.suggestions |
| NOT_FOUND | no event has that id or name | search_events first |

Nothing is written when a call fails.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
