package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rpggio/eventdesk/internal/domain/event"
)

// ConsoleSender prints reminders instead of sending them.
type ConsoleSender struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSender creates a ConsoleSender writing to out.
func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

// Send implements repository.Sender.
func (s *ConsoleSender) Send(_ context.Context, recipients []string, ev event.Event) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("\n--- SIMULATED EMAIL REMINDER ---\n")
	fmt.Fprintf(&b, "To: %s\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", Subject(ev))
	fmt.Fprintf(&b, "Body:\n%s", Body(ev))
	b.WriteString("--------------------------------\n")

	_, err := io.WriteString(s.out, b.String())
	return err
}
