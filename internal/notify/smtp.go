package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/wneessen/go-mail"
)

// ErrNoRecipients indicates a send with an empty recipient list.
var ErrNoRecipients = errors.New("no recipients")

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender sends one message per event over implicit TLS.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTPSender. From defaults to Username.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SMTPSender{cfg: cfg, logger: logger}, nil
}

// Message builds the reminder message for ev addressed to recipients.
func (s *SMTPSender) Message(recipients []string, ev event.Event) (*mail.Msg, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(Subject(ev))
	m.SetBodyString(mail.TypeTextPlain, Body(ev))
	return m, nil
}

// Send implements repository.Sender.
func (s *SMTPSender) Send(ctx context.Context, recipients []string, ev event.Event) error {
	m, err := s.Message(recipients, ev)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send reminder for %q: %w", ev.Name, err)
	}

	s.logger.Info("reminder sent", "event", ev.ID, "recipients", len(recipients))
	return nil
}
