package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func TestBody(t *testing.T) {
	ev := event.Event{ID: "ab12cd34", Name: "Gala", Date: "24-12-2030", Time: "19:00", Location: "Hall"}

	require.Equal(t, "Reminder: Upcoming Event - Gala", Subject(ev))
	body := Body(ev)
	require.Contains(t, body, "upcoming event: Gala")
	require.Contains(t, body, "Date: 24-12-2030\n")
	require.Contains(t, body, "Time: 19:00\n")
	require.Contains(t, body, "Location: Hall\n")

	ev.Location = "  "
	require.Contains(t, Body(ev), "Location: Not specified\n")
}

func TestConsoleSender(t *testing.T) {
	var out bytes.Buffer
	sender := NewConsoleSender(&out)
	ev := event.Event{Name: "Gala", Date: "24-12-2030", Time: "19:00"}

	require.NoError(t, sender.Send(context.Background(), []string{"a@example.com", "b@example.com"}, ev))
	require.Contains(t, out.String(), "To: a@example.com, b@example.com\n")
	require.Contains(t, out.String(), "Subject: Reminder: Upcoming Event - Gala\n")

	require.ErrorIs(t, sender.Send(context.Background(), nil, ev), ErrNoRecipients)
}

func TestSMTPSender_Message(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{}, nil)
	require.Error(t, err)

	sender, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Username: "desk@example.com"}, nil)
	require.NoError(t, err)
	require.Equal(t, 465, sender.cfg.Port)
	require.Equal(t, "desk@example.com", sender.cfg.From)

	ev := event.Event{Name: "Gala", Date: "24-12-2030", Time: "19:00"}
	_, err = sender.Message(nil, ev)
	require.ErrorIs(t, err, ErrNoRecipients)

	_, err = sender.Message([]string{"not an address"}, ev)
	require.Error(t, err)

	m, err := sender.Message([]string{"a@example.com"}, ev)
	require.NoError(t, err)
	require.Equal(t, []string{"Reminder: Upcoming Event - Gala"}, m.GetGenHeader("Subject"))
}
