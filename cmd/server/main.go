package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/eventdesk/internal/attendee"
	"github.com/rpggio/eventdesk/internal/config"
	"github.com/rpggio/eventdesk/internal/console"
	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/domain/reminder"
	"github.com/rpggio/eventdesk/internal/jsonfile"
	"github.com/rpggio/eventdesk/internal/mcp"
	"github.com/rpggio/eventdesk/internal/metrics"
	"github.com/rpggio/eventdesk/internal/notify"
	"github.com/rpggio/eventdesk/internal/repository"
	"github.com/rpggio/eventdesk/internal/scheduler"
	"github.com/rpggio/eventdesk/internal/sqlite"
	"github.com/rpggio/eventdesk/internal/transport"
)

// app holds the wired components shared by every front end.
type app struct {
	registry  *event.Registry
	activity  *activity.Service
	reminders *reminder.Service
	directory *attendee.Directory
	mailer    repository.Sender
	metrics   *metrics.Manager
	closers   []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Keep stdout free for the menu and for JSON-RPC on stdio.
	logWriter := io.Writer(os.Stderr)
	if cfg.Transport.Mode == config.ModeHTTP {
		logWriter = os.Stdout
	}
	if logPath := os.Getenv("EVENTDESK_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	switch cfg.Transport.Mode {
	case config.ModeConsole:
		err = runConsoleMode(ctx, cfg, logger, a)
	case config.ModeStdio:
		err = runStdioMode(ctx, cfg, logger, a)
	default:
		err = runHTTPMode(ctx, cfg, logger, a)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		a.Close()
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}
	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewManager()
	}

	var (
		store        event.Store
		activityRepo *sqlite.ActivityRepository
	)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := openDB(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		store = sqlite.NewEventStore(db)
		activityRepo = sqlite.NewActivityRepository(db)
	default:
		store = jsonfile.NewStore(cfg.Store.Path)
		if cfg.Store.ActivityPath != "" {
			db, err := openDB(cfg.Store.ActivityPath)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, db)
			activityRepo = sqlite.NewActivityRepository(db)
		}
	}

	var activities event.ActivityRepository
	if activityRepo != nil {
		a.activity = activity.NewService(activityRepo, logger)
		activities = a.activity
	}

	regOpts := []event.Option{}
	if a.metrics != nil {
		regOpts = append(regOpts, event.WithRecorder(a.metrics))
	}
	a.registry = event.NewRegistry(store, activities, logger, regOpts...)
	a.registry.Load(ctx)

	a.directory = attendee.NewDirectory(cfg.Attendees.Path, logger)

	reminderOpts := []reminder.Option{reminder.WithSendTimeout(cfg.Mail.Timeout)}
	if a.metrics != nil {
		reminderOpts = append(reminderOpts, reminder.WithRecorder(a.metrics))
	}
	var reminderLog reminder.ActivityLog
	if a.activity != nil {
		reminderLog = a.activity
	}
	a.reminders = reminder.NewService(a.registry, a.directory, reminderLog, logger, reminderOpts...)

	if !cfg.Mail.Simulate && cfg.Mail.Username != "" {
		mailer, err := newMailer(cfg.Mail, cfg.Mail.Username, cfg.Mail.Password, logger)
		if err != nil {
			return nil, err
		}
		a.mailer = mailer
	}

	return a, nil
}

func openDB(path string) (*sqlite.DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func newMailer(mc config.MailConfig, username, password string, logger *slog.Logger) (*notify.SMTPSender, error) {
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     mc.Host,
		Port:     mc.Port,
		Username: username,
		Password: password,
		From:     mc.From,
		Timeout:  mc.Timeout,
	}, logger)
}

func runConsoleMode(ctx context.Context, cfg config.Config, logger *slog.Logger, a *app) error {
	consoleCfg := console.Config{
		Registry:      a.registry,
		Reminders:     a.reminders,
		Directory:     a.directory,
		Simulated:     notify.NewConsoleSender(os.Stdout),
		Mailer:        a.mailer,
		AdminPassword: cfg.Admin.Password,
		JSONExport:    cfg.Export.JSONPath,
		ICSExport:     cfg.Export.ICSPath,
		Logger:        logger,
		NewMailer: func(username, password string) (repository.Sender, error) {
			mailer, err := newMailer(cfg.Mail, username, password, logger)
			if err != nil {
				return nil, err
			}
			return mailer, nil
		},
	}
	return console.NewApp(consoleCfg, os.Stdin, os.Stdout).Run(ctx)
}

func newMCPServer(logger *slog.Logger, a *app) *sdkmcp.Server {
	cfg := mcp.Config{
		Events: a.registry,
		Logger: logger,
	}
	if a.activity != nil {
		cfg.Activity = a.activity
	}
	return mcp.NewServer(cfg)
}

func startScheduler(cfg config.Config, logger *slog.Logger, a *app) (*scheduler.Scheduler, error) {
	if cfg.Reminders.Schedule == "" {
		return nil, nil
	}
	sender := a.mailer
	if sender == nil {
		logger.Warn("no SMTP credentials configured, scheduled reminders are simulated")
		sender = notify.NewConsoleSender(os.Stderr)
	}
	s, err := scheduler.New(cfg.Reminders.Schedule, a.reminders, sender, logger)
	if err != nil {
		return nil, err
	}
	s.Start()
	return s, nil
}

func runStdioMode(ctx context.Context, cfg config.Config, logger *slog.Logger, a *app) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	sched, err := startScheduler(cfg, logger, a)
	if err != nil {
		return err
	}
	if sched != nil {
		defer stopScheduler(sched)
	}

	// Run blocks until stdin closes or ctx is canceled.
	return newMCPServer(logger, a).Run(ctx, &sdkmcp.StdioTransport{})
}

func runHTTPMode(ctx context.Context, cfg config.Config, logger *slog.Logger, a *app) error {
	mcpServer := newMCPServer(logger, a)
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	opts := transport.Options{Logger: logger}
	if cfg.Auth.Enabled {
		opts.Auth = transport.StaticToken(cfg.Auth.Token)
	}
	if a.metrics != nil {
		opts.Metrics = a.metrics
	}

	sched, err := startScheduler(cfg, logger, a)
	if err != nil {
		return err
	}
	if sched != nil {
		defer stopScheduler(sched)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewRouter(mcpHandler, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled, "metrics", cfg.Metrics.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

func stopScheduler(s *scheduler.Scheduler) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop(ctx)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
