package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, server *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func textOf(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_ToolsOverSession(t *testing.T) {
	ctx := context.Background()
	server := NewServer(Config{Events: newTestRegistry(t), Now: fixedNow})
	cs := connect(t, server)

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"add_event", "edit_event", "delete_event", "find_event", "list_events",
		"search_events", "suggest_slots", "upcoming_events", "get_recent_activity",
	}, names)

	result, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "add_event",
		Arguments: map[string]any{"name": "Standup", "date": "01-03-2030", "time": "09:00", "type": "meeting"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, textOf(t, result), `"name":"Standup"`)

	result, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "add_event",
		Arguments: map[string]any{"name": "Planning", "date": "01-03-2030", "time": "09:15", "type": "meeting"},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &apiErr))
	require.Equal(t, "CONFLICT", apiErr.Code)
	details := apiErr.Details.(map[string]any)
	require.Equal(t, []any{"00:00", "01:00", "02:00"}, details["suggestions"])
}

func TestServer_DocResources(t *testing.T) {
	ctx := context.Background()
	cs := connect(t, NewServer(Config{Events: newTestRegistry(t)}))

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "eventdesk://docs/scheduling"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "[start, start+60m)")
}
