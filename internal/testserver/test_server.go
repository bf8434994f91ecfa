package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/mcp"
	"github.com/rpggio/eventdesk/internal/metrics"
	"github.com/rpggio/eventdesk/internal/sqlite"
	"github.com/rpggio/eventdesk/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is the HTTP stack of eventdesk backed by an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Registry *event.Registry
	Metrics  *metrics.Manager
	Token    string
}

// New starts a server that requires token on /mcp. now fixes the clock
// used for upcoming-event queries.
func New(t *testing.T, token string, now time.Time) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	m := metrics.NewManager()
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	registry := event.NewRegistry(sqlite.NewEventStore(db), activitySvc, nil, event.WithRecorder(m))
	registry.Load(context.Background())

	server := mcp.NewServer(mcp.Config{
		Events:   registry,
		Activity: activitySvc,
		Now:      func() time.Time { return now },
	})
	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	ts := &TestServer{
		Server: httptest.NewServer(transport.NewRouter(handler, transport.Options{
			Auth:    transport.StaticToken(token),
			Metrics: m,
		})),
		DB:       db,
		Registry: registry,
		Metrics:  m,
		Token:    token,
	}

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// Connect opens an MCP client session over streamable HTTP using token.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: token, next: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

type bearer struct {
	token string
	next  http.RoundTripper
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(req)
}
