package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	ModeConsole = "console"
	ModeStdio   = "stdio"
	ModeHTTP    = "http"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config defines application configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Auth      AuthConfig      `yaml:"auth"`
	Attendees AttendeesConfig `yaml:"attendees"`
	Mail      MailConfig      `yaml:"mail"`
	Export    ExportConfig    `yaml:"export"`
	Reminders RemindersConfig `yaml:"reminders"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects the event store. The activity log lives in SQLite:
// in Path for the sqlite backend, in ActivityPath for the json backend
// (empty disables it there).
type StoreConfig struct {
	Backend      string `yaml:"backend"`
	Path         string `yaml:"path"`
	ActivityPath string `yaml:"activity_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AdminConfig struct {
	Password string `yaml:"password"`
}

// AuthConfig guards the MCP HTTP endpoint with a bearer token.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type AttendeesConfig struct {
	Path string `yaml:"path"`
}

// MailConfig configures reminder delivery. With Simulate set, reminders
// are printed instead of sent.
type MailConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	Simulate bool          `yaml:"simulate"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ExportConfig struct {
	JSONPath string `yaml:"json_path"`
	ICSPath  string `yaml:"ics_path"`
}

// RemindersConfig schedules automatic reminder runs outside the console.
// An empty Schedule disables them.
type RemindersConfig struct {
	Schedule string `yaml:"schedule"`
}

// MetricsConfig exposes Prometheus metrics at /metrics in HTTP mode.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Transport: TransportConfig{Mode: ModeConsole},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Backend:      BackendJSON,
			Path:         "events.json",
			ActivityPath: "activity.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Admin: AdminConfig{
			Password: "admin123",
		},
		Attendees: AttendeesConfig{
			Path: "attendees.xlsx",
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     465,
			Simulate: true,
			Timeout:  30 * time.Second,
		},
		Export: ExportConfig{
			JSONPath: "events_backup.json",
			ICSPath:  "events.ics",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("EVENTDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeConsole, ModeStdio, ModeHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Store.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("invalid store backend %q", c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail port %d", c.Mail.Port)
	}
	if c.Auth.Enabled && c.Auth.Token == "" {
		return errors.New("auth token is required when auth is enabled")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("EVENTDESK_TRANSPORT_MODE", &cfg.Transport.Mode)
	setString("EVENTDESK_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("EVENTDESK_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("EVENTDESK_STORE_BACKEND", &cfg.Store.Backend)
	setString("EVENTDESK_STORE_PATH", &cfg.Store.Path)
	setString("EVENTDESK_STORE_ACTIVITY_PATH", &cfg.Store.ActivityPath)
	setString("EVENTDESK_LOG_LEVEL", &cfg.Log.Level)
	setString("EVENTDESK_ADMIN_PASSWORD", &cfg.Admin.Password)
	if err := setBool("EVENTDESK_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	setString("EVENTDESK_AUTH_TOKEN", &cfg.Auth.Token)
	setString("EVENTDESK_ATTENDEES_PATH", &cfg.Attendees.Path)
	setString("EVENTDESK_MAIL_HOST", &cfg.Mail.Host)
	if err := setInt("EVENTDESK_MAIL_PORT", &cfg.Mail.Port); err != nil {
		return err
	}
	setString("EVENTDESK_MAIL_USERNAME", &cfg.Mail.Username)
	setString("EVENTDESK_MAIL_PASSWORD", &cfg.Mail.Password)
	setString("EVENTDESK_MAIL_FROM", &cfg.Mail.From)
	if err := setBool("EVENTDESK_MAIL_SIMULATE", &cfg.Mail.Simulate); err != nil {
		return err
	}
	if v := os.Getenv("EVENTDESK_MAIL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid EVENTDESK_MAIL_TIMEOUT: %w", err)
		}
		cfg.Mail.Timeout = d
	}
	setString("EVENTDESK_EXPORT_JSON_PATH", &cfg.Export.JSONPath)
	setString("EVENTDESK_EXPORT_ICS_PATH", &cfg.Export.ICSPath)
	setString("EVENTDESK_REMINDERS_SCHEDULE", &cfg.Reminders.Schedule)
	return setBool("EVENTDESK_METRICS_ENABLED", &cfg.Metrics.Enabled)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
