package functional_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/testserver"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestMCP_RequiresToken(t *testing.T) {
	ts := testserver.New(t, "secret", today)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMCP_ServerInfo(t *testing.T) {
	ts := testserver.New(t, "secret", today)
	cs := ts.Connect(t, ts.Token)

	info := cs.InitializeResult()
	require.NotNil(t, info)
	require.Equal(t, "eventdesk", info.ServerInfo.Name)

	tools, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 9)
	for _, tool := range tools.Tools {
		require.NotEmpty(t, tool.Description, "tool %s should have description", tool.Name)
		require.NotNil(t, tool.InputSchema, "tool %s should have inputSchema", tool.Name)
	}
}

func TestMCP_SchedulingWorkflow(t *testing.T) {
	ts := testserver.New(t, "secret", today)
	cs := ts.Connect(t, ts.Token)

	text, isErr := callTool(t, cs, "add_event", map[string]any{
		"name": "Standup", "date": "02-03-2030", "time": "09:00", "type": "meeting", "location": "Room 1",
	})
	require.False(t, isErr, text)
	var added event.Event
	require.NoError(t, json.Unmarshal([]byte(text), &added))
	require.Len(t, added.ID, event.IDLength)

	// 09:30 overlaps the standup hour.
	text, isErr = callTool(t, cs, "add_event", map[string]any{
		"name": "Review", "date": "02-03-2030", "time": "09:30",
	})
	require.True(t, isErr)
	var apiErr struct {
		Code    string `json:"code"`
		Details struct {
			With        event.Event `json:"conflicts_with"`
			Suggestions []string    `json:"suggestions"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	require.Equal(t, "CONFLICT", apiErr.Code)
	require.Equal(t, added.ID, apiErr.Details.With.ID)
	require.Equal(t, []string{"00:00", "01:00", "02:00"}, apiErr.Details.Suggestions)

	text, isErr = callTool(t, cs, "add_event", map[string]any{
		"name": "Review", "date": "02-03-2030", "time": "10:00",
	})
	require.False(t, isErr, text)

	text, isErr = callTool(t, cs, "upcoming_events", map[string]any{})
	require.False(t, isErr, text)
	var upcoming struct {
		Events []event.Event `json:"events"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &upcoming))
	require.Equal(t, 2, upcoming.Count)
	require.Equal(t, "Standup", upcoming.Events[0].Name)

	text, isErr = callTool(t, cs, "delete_event", map[string]any{"identifier": "standup"})
	require.False(t, isErr, text)
	require.Len(t, ts.Registry.Snapshot(), 1)

	text, isErr = callTool(t, cs, "get_recent_activity", map[string]any{"event_id": added.ID})
	require.False(t, isErr, text)
	require.Contains(t, text, "event_deleted")
	require.Contains(t, text, "event_added")
}

func TestMCP_MetricsExposed(t *testing.T) {
	ts := testserver.New(t, "secret", today)
	cs := ts.Connect(t, ts.Token)

	_, isErr := callTool(t, cs, "add_event", map[string]any{"name": "Standup", "date": "02-03-2030", "time": "09:00"})
	require.False(t, isErr)

	resp, err := http.Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `eventdesk_registry_mutations_total{op="add",outcome="ok"} 1`)
	require.Contains(t, string(body), "eventdesk_registry_events 1")
}
