package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/domain/reminder"
	"github.com/rpggio/eventdesk/internal/jsonfile"
	"github.com/rpggio/eventdesk/internal/notify"
	"github.com/rpggio/eventdesk/internal/repository"
	"github.com/rpggio/eventdesk/internal/repository/mocks"
)

func fixedNow() time.Time {
	return time.Date(2030, 3, 10, 8, 0, 0, 0, time.UTC)
}

type harness struct {
	dir      string
	registry *event.Registry
	attendee *mocks.AttendeeDirectory
	cfg      Config
}

func newHarness(t *testing.T, seed ...event.Event) *harness {
	t.Helper()
	dir := t.TempDir()
	store := jsonfile.NewStore(filepath.Join(dir, "events.json"))
	require.NoError(t, store.SaveAll(context.Background(), seed))

	reg := event.NewRegistry(store, nil, nil)
	reg.Load(context.Background())

	attendees := &mocks.AttendeeDirectory{}
	h := &harness{dir: dir, registry: reg, attendee: attendees}
	h.cfg = Config{
		Registry:      reg,
		Reminders:     reminder.NewService(reg, attendees, nil, nil, reminder.WithClock(fixedNow)),
		Directory:     attendees,
		AdminPassword: "admin123",
		JSONExport:    filepath.Join(dir, "backup.json"),
		ICSExport:     filepath.Join(dir, "events.ics"),
		Now:           fixedNow,
	}
	return h
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(h.cfg, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func TestApp_PublicMenu(t *testing.T) {
	h := newHarness(t,
		event.Event{ID: "t1", Name: "Standup", Date: "10-03-2030", Time: "09:00", Type: "meeting", Location: "Room 1"},
		event.Event{ID: "t2", Name: "Gala", Date: "11-03-2030", Time: "19:00", Type: "social"},
	)

	out := h.run(t, "1", "2", "gala", "9", "4")
	require.Contains(t, out, "--- Events for 10-03-2030 ---")
	require.Contains(t, out, "[t1] Standup - 09:00 @ Room 1 (meeting)")
	require.Contains(t, out, "--- Search Results for 'gala' ---")
	require.Contains(t, out, "[t2] Gala - 11-03-2030 19:00 @  (social)")
	require.Contains(t, out, "Invalid choice.")
	require.Contains(t, out, "Goodbye!")
	require.NotContains(t, out, "--- Admin Menu ---")
}

func TestApp_Login(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "3", "wrong", "3", "admin123", "10", "4")
	require.Contains(t, out, "Incorrect password.")
	require.Contains(t, out, "Logged in as Admin.")
	require.Contains(t, out, "--- Admin Menu ---")
	require.Contains(t, out, "Logged out.")
	require.Contains(t, out, "Goodbye!")
}

func TestApp_EndOfInputStops(t *testing.T) {
	h := newHarness(t)
	var out bytes.Buffer
	app := NewApp(h.cfg, strings.NewReader("3\nadmin123\n"), &out)
	require.NoError(t, app.Run(context.Background()))
	require.True(t, app.Session().IsAdmin())
}

func TestApp_AddConflictSuggests(t *testing.T) {
	h := newHarness(t, event.Event{ID: "s1", Name: "Standup", Date: "01-03-2030", Time: "09:00", Type: "meeting"})

	out := h.run(t,
		"3", "admin123",
		"1", "Planning", "01-03-2030", "09:15", "meeting", "",
		"1", "Planning", "01-03-2030", "10:00", "meeting", "Room 2",
		"1", "Broken", "2030-03-01", "10:00", "x", "",
		"10", "4",
	)
	require.Contains(t, out, "Conflict detected! This event overlaps with 'Standup' at 09:00.")
	require.Contains(t, out, "   - 00:00\n   - 01:00\n   - 02:00\n")
	require.Contains(t, out, "Event added successfully!")
	require.Contains(t, out, "Invalid date or time format")

	events, err := h.registry.ListByDate("01-03-2030")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Planning", events[1].Name)
}

func TestApp_EditAndDelete(t *testing.T) {
	h := newHarness(t, event.Event{ID: "s1", Name: "Standup", Date: "01-03-2030", Time: "09:00", Type: "meeting", Location: "Room 1"})

	out := h.run(t,
		"3", "admin123",
		"2", "standup", "", "", "11:00", "", "",
		"2", "nope",
		"3", "s1",
		"3", "s1",
		"10", "4",
	)
	require.Contains(t, out, "Enter new name (current: Standup): ")
	require.Contains(t, out, "Event edited successfully!")
	require.Contains(t, out, "Event 'Standup' deleted successfully.")
	require.Equal(t, 2, strings.Count(out, "Event not found."))
	require.Empty(t, h.registry.Snapshot())
}

func TestApp_EditChangesTheEventShown(t *testing.T) {
	h := newHarness(t,
		event.Event{ID: "bbbb2222", Name: "aaaa1111", Date: "01-01-2030", Time: "12:00"},
		event.Event{ID: "aaaa1111", Name: "First", Date: "01-01-2030", Time: "08:00"},
	)

	out := h.run(t,
		"3", "admin123",
		"2", "First", "", "", "15:00", "", "",
		"10", "4",
	)
	require.Contains(t, out, "Enter new name (current: First): ")
	require.Contains(t, out, "Event edited successfully!")

	first, ok := h.registry.Find("aaaa1111")
	require.True(t, ok)
	require.Equal(t, "15:00", first.Time)
	other, ok := h.registry.Find("bbbb2222")
	require.True(t, ok)
	require.Equal(t, "12:00", other.Time)
}

func TestApp_ViewAllAndByDay(t *testing.T) {
	h := newHarness(t,
		event.Event{ID: "b", Name: "Later", Date: "02-03-2030", Time: "09:00", Type: "x"},
		event.Event{ID: "a", Name: "Sooner", Date: "01-03-2030", Time: "09:00", Type: "x"},
	)

	out := h.run(t, "3", "admin123", "4", "5", "01-03-2030", "5", "bad", "5", "05-03-2030", "10", "4")
	require.Contains(t, out, "--- All Events ---\n[a] Sooner")
	require.Contains(t, out, "--- Events for 01-03-2030 ---")
	require.Contains(t, out, "Invalid date format. Please use DD-MM-YYYY.")
	require.Contains(t, out, "No events found for 05-03-2030.")
}

func TestApp_SimulatedReminders(t *testing.T) {
	h := newHarness(t, event.Event{ID: "g1", Name: "Gala", Date: "11-03-2030", Time: "19:00", Type: "social"})
	h.attendee.On("ListEmails", mock.Anything).Return([]string{"a@example.com"}, nil)
	var mailbox bytes.Buffer
	h.cfg.Simulated = notify.NewConsoleSender(&mailbox)

	out := h.run(t, "3", "admin123", "7", "p", "7", "x", "7", "s", "10", "4")
	require.Contains(t, out, "Reminders for 'Gala' sent to 1 attendees.")
	require.Contains(t, out, "Invalid choice. No reminders sent.")
	require.Contains(t, out, "email delivery is not configured")
	require.Contains(t, mailbox.String(), "Subject: Reminder: Upcoming Event - Gala")
}

func TestApp_RealRemindersPromptForCredentials(t *testing.T) {
	h := newHarness(t, event.Event{ID: "g1", Name: "Gala", Date: "11-03-2030", Time: "19:00"})
	h.attendee.On("ListEmails", mock.Anything).Return([]string{"a@example.com"}, nil)

	sender := &mocks.Sender{}
	sender.On("Send", mock.Anything, []string{"a@example.com"}, mock.Anything).Return(nil)
	var gotUser, gotPass string
	h.cfg.NewMailer = func(username, password string) (repository.Sender, error) {
		gotUser, gotPass = username, password
		return sender, nil
	}

	out := h.run(t, "3", "admin123", "7", "s", "desk@example.com", "app-pass", "10", "4")
	require.Equal(t, "desk@example.com", gotUser)
	require.Equal(t, "app-pass", gotPass)
	require.Contains(t, out, "Reminders for 'Gala' sent to 1 attendees.")
	sender.AssertExpectations(t)
}

func TestApp_NoUpcomingReminders(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "3", "admin123", "7", "p", "10", "4")
	require.Contains(t, out, "No events found for tomorrow.")
}

func TestApp_AddAttendee(t *testing.T) {
	h := newHarness(t)
	h.attendee.On("AddEmail", mock.Anything, "new@example.com").Return(nil)

	out := h.run(t, "3", "admin123", "8", "new@example.com", "10", "4")
	require.Contains(t, out, "Email 'new@example.com' added to attendees list.")
	h.attendee.AssertExpectations(t)
}

func TestApp_Export(t *testing.T) {
	h := newHarness(t, event.Event{ID: "g1", Name: "Gala", Date: "11-03-2030", Time: "19:00"})

	out := h.run(t, "3", "admin123", "9", "10", "4")
	require.Contains(t, out, "All events exported to")
	require.Contains(t, out, "1 events exported to")

	backup, err := jsonfile.NewStore(h.cfg.JSONExport).LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, h.registry.Snapshot(), backup)

	data, err := os.ReadFile(h.cfg.ICSExport)
	require.NoError(t, err)
	require.Contains(t, string(data), "SUMMARY:Gala")
}

func TestApp_ExportWithNoEvents(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "3", "admin123", "9", "10", "4")
	require.Contains(t, out, "No events to export.")
	require.NotContains(t, out, "exported to")
	require.NoFileExists(t, h.cfg.JSONExport)
	require.NoFileExists(t, h.cfg.ICSExport)
}
