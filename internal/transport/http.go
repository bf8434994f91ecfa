package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the HTTP router.
type Options struct {
	// Auth guards /mcp when set.
	Auth Authenticator
	// Metrics, when set, instruments every route and serves /metrics.
	Metrics MetricsHandler
	Logger  *slog.Logger
}

// MetricsHandler is the HTTP face of the metrics manager.
type MetricsHandler interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// NewRouter mounts the MCP handler at /mcp next to /health and /metrics.
func NewRouter(mcpHandler http.Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}

	r.Get("/health", handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(AuthMiddleware(opts.Auth))
		}
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			principal, _ := PrincipalFromContext(r.Context())
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"mcp_session", r.Header.Get("Mcp-Session-Id"),
				"principal", principal,
			)
		})
	}
}
