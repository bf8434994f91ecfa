// Package console implements the interactive text menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/rpggio/eventdesk/internal/domain/reminder"
	"github.com/rpggio/eventdesk/internal/ics"
	"github.com/rpggio/eventdesk/internal/jsonfile"
	"github.com/rpggio/eventdesk/internal/repository"
)

// MailerFunc builds a real sender from credentials entered at the prompt.
type MailerFunc func(username, password string) (repository.Sender, error)

// Config wires the console to the rest of the application.
type Config struct {
	Registry      *event.Registry
	Reminders     *reminder.Service
	Directory     repository.AttendeeDirectory
	Simulated     repository.Sender
	Mailer        repository.Sender
	NewMailer     MailerFunc
	AdminPassword string
	JSONExport    string
	ICSExport     string
	Logger        *slog.Logger
	Now           func() time.Time
}

// App runs the menu loop against a reader and a writer.
type App struct {
	cfg     Config
	in      *bufio.Scanner
	out     io.Writer
	session Session
}

// NewApp creates a console app.
func NewApp(cfg Config, in io.Reader, out io.Writer) *App {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &App{cfg: cfg, in: bufio.NewScanner(in), out: out}
}

// Session exposes the current session.
func (a *App) Session() *Session {
	return &a.session
}

// Run loops until the user exits, input ends, or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.println("Welcome to the Smart Event Manager!")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			done bool
			err  error
		)
		if a.session.IsAdmin() {
			done, err = a.adminMenu(ctx)
		} else {
			done, err = a.publicMenu(ctx)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (a *App) publicMenu(ctx context.Context) (bool, error) {
	a.println("\n--- Main Menu ---")
	a.println("1. View Today's Events")
	a.println("2. Search Events")
	a.println("3. Log in as Admin")
	a.println("4. Exit")
	choice, err := a.prompt("Enter your choice: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		a.viewDay(event.FormatDate(a.cfg.Now()))
	case "2":
		return false, a.search()
	case "3":
		password, err := a.prompt("Enter admin password: ")
		if err != nil {
			return false, err
		}
		if a.session.Login(password, a.cfg.AdminPassword) {
			a.println("Logged in as Admin.")
		} else {
			a.cfg.Logger.Warn("admin login failed")
			a.println("Incorrect password.")
		}
	case "4":
		a.println("Goodbye!")
		return true, nil
	default:
		a.println("Invalid choice.")
	}
	return false, nil
}

func (a *App) adminMenu(ctx context.Context) (bool, error) {
	a.println("\n--- Admin Menu ---")
	a.println("1. Add Event")
	a.println("2. Edit Event")
	a.println("3. Delete Event")
	a.println("4. View All Events")
	a.println("5. View Events by Day")
	a.println("6. Search Events")
	a.println("7. Send Reminders")
	a.println("8. Add Attendee")
	a.println("9. Export All Events")
	a.println("10. Log out")
	choice, err := a.prompt("Enter your choice: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		return false, a.add(ctx)
	case "2":
		return false, a.edit(ctx)
	case "3":
		return false, a.remove(ctx)
	case "4":
		a.viewAll()
	case "5":
		date, err := a.prompt("Enter date to view (DD-MM-YYYY): ")
		if err != nil {
			return false, err
		}
		a.viewDay(date)
	case "6":
		return false, a.search()
	case "7":
		return false, a.sendReminders(ctx)
	case "8":
		return false, a.addAttendee(ctx)
	case "9":
		a.export()
	case "10":
		a.session.Logout()
		a.println("Logged out.")
	default:
		a.println("Invalid choice.")
	}
	return false, nil
}

func (a *App) add(ctx context.Context) error {
	var f event.Fields
	var err error
	if f.Name, err = a.prompt("Enter event name: "); err != nil {
		return err
	}
	if f.Date, err = a.prompt("Enter date (DD-MM-YYYY): "); err != nil {
		return err
	}
	if f.Time, err = a.prompt("Enter time (HH:MM): "); err != nil {
		return err
	}
	if f.Type, err = a.prompt("Enter event type: "); err != nil {
		return err
	}
	if f.Location, err = a.prompt("Enter location (optional): "); err != nil {
		return err
	}

	ev, err := a.cfg.Registry.Add(ctx, f)
	if err != nil {
		a.reportMutationError(err)
		return nil
	}
	a.printf("Event added successfully! ID: %s\n", ev.ID)
	return nil
}

func (a *App) edit(ctx context.Context) error {
	identifier, err := a.prompt("Enter event ID or name to edit: ")
	if err != nil {
		return err
	}
	current, ok := a.cfg.Registry.Find(identifier)
	if !ok {
		a.println("Event not found.")
		return nil
	}

	a.println("--- Editing Event ---")
	var f event.Fields
	if f.Name, err = a.prompt(fmt.Sprintf("Enter new name (current: %s): ", current.Name)); err != nil {
		return err
	}
	if f.Date, err = a.prompt(fmt.Sprintf("Enter new date (DD-MM-YYYY, current: %s): ", current.Date)); err != nil {
		return err
	}
	if f.Time, err = a.prompt(fmt.Sprintf("Enter new time (HH:MM, current: %s): ", current.Time)); err != nil {
		return err
	}
	if f.Type, err = a.prompt(fmt.Sprintf("Enter new type (current: %s): ", current.Type)); err != nil {
		return err
	}
	if f.Location, err = a.prompt(fmt.Sprintf("Enter new location (current: %s): ", current.Location)); err != nil {
		return err
	}

	if _, err := a.cfg.Registry.EditByID(ctx, current.ID, f); err != nil {
		a.reportMutationError(err)
		return nil
	}
	a.println("Event edited successfully!")
	return nil
}

func (a *App) remove(ctx context.Context) error {
	identifier, err := a.prompt("Enter event ID or name to delete: ")
	if err != nil {
		return err
	}
	removed, err := a.cfg.Registry.Delete(ctx, identifier)
	if err != nil {
		a.reportMutationError(err)
		return nil
	}
	a.printf("Event '%s' deleted successfully.\n", removed.Name)
	return nil
}

func (a *App) reportMutationError(err error) {
	var conflict *event.ConflictError
	switch {
	case errors.As(err, &conflict):
		a.printf("Conflict detected! This event overlaps with '%s' at %s.\n", conflict.With.Name, conflict.With.Time)
		if len(conflict.Suggestions) == 0 {
			a.println("No free hourly slots remain on that date.")
			return
		}
		a.println("Suggested available time slots:")
		for _, slot := range conflict.Suggestions {
			a.printf("   - %s\n", slot)
		}
	case errors.Is(err, event.ErrInvalidFormat):
		a.println("Error: Invalid date or time format. Please use DD-MM-YYYY and HH:MM.")
	case errors.Is(err, event.ErrDuplicateKey):
		a.println("Error: An event with this name already exists on that date.")
	case errors.Is(err, event.ErrNotFound):
		a.println("Event not found.")
	case errors.Is(err, event.ErrInvalidInput):
		a.println("Error: Event name is required.")
	default:
		a.cfg.Logger.Error("event change failed", "error", err)
		a.printf("Error: %v\n", err)
	}
}

func (a *App) viewAll() {
	events := a.cfg.Registry.ListAll()
	if len(events) == 0 {
		a.println("No events found.")
		return
	}
	a.println("\n--- All Events ---")
	for _, ev := range events {
		a.println(ev.String())
	}
}

func (a *App) viewDay(date string) {
	events, err := a.cfg.Registry.ListByDate(date)
	if err != nil {
		a.println("Invalid date format. Please use DD-MM-YYYY.")
		return
	}
	if len(events) == 0 {
		a.printf("No events found for %s.\n", strings.TrimSpace(date))
		return
	}
	a.printf("\n--- Events for %s ---\n", strings.TrimSpace(date))
	for _, ev := range events {
		a.printf("[%s] %s - %s @ %s (%s)\n", ev.ID, ev.Name, ev.Time, ev.Location, ev.Type)
	}
}

func (a *App) search() error {
	keyword, err := a.prompt("Enter a keyword to search: ")
	if err != nil {
		return err
	}
	results := a.cfg.Registry.Search(keyword)
	if len(results) == 0 {
		a.printf("No events found for keyword: '%s'.\n", keyword)
		return nil
	}
	a.printf("\n--- Search Results for '%s' ---\n", keyword)
	for _, ev := range results {
		a.println(ev.String())
	}
	return nil
}

func (a *App) sendReminders(ctx context.Context) error {
	a.println("--- Sending Reminders ---")
	if a.cfg.Reminders == nil {
		a.println("Reminders are not configured.")
		return nil
	}
	action, err := a.prompt("Send (S) real emails or (P)rint a simulation? (S/P): ")
	if err != nil {
		return err
	}

	var sender repository.Sender
	switch strings.ToLower(action) {
	case "s":
		sender, err = a.realSender()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			a.printf("Error: %v\n", err)
			return nil
		}
	case "p":
		sender = a.cfg.Simulated
	default:
		a.println("Invalid choice. No reminders sent.")
		return nil
	}

	report, err := a.cfg.Reminders.Send(ctx, sender)
	switch {
	case errors.Is(err, reminder.ErrNoUpcoming):
		a.println("No events found for tomorrow.")
		return nil
	case errors.Is(err, reminder.ErrNoRecipients):
		a.println("No valid email addresses were found in the attendee list.")
		return nil
	case err != nil:
		a.printf("Error: %v\n", err)
		return nil
	}

	for _, ev := range report.Sent {
		a.printf("Reminders for '%s' sent to %d attendees.\n", ev.Name, len(report.Recipients))
	}
	for _, f := range report.Failed {
		a.printf("Failed to send reminders for '%s': %v\n", f.Event.Name, f.Err)
	}
	return nil
}

func (a *App) realSender() (repository.Sender, error) {
	if a.cfg.Mailer != nil {
		return a.cfg.Mailer, nil
	}
	if a.cfg.NewMailer == nil {
		return nil, errors.New("email delivery is not configured")
	}
	username, err := a.prompt("Enter your sender email (e.g., your_email@gmail.com): ")
	if err != nil {
		return nil, err
	}
	password, err := a.prompt("Enter your app password: ")
	if err != nil {
		return nil, err
	}
	return a.cfg.NewMailer(username, password)
}

func (a *App) addAttendee(ctx context.Context) error {
	email, err := a.prompt("Enter the new attendee's email: ")
	if err != nil {
		return err
	}
	if a.cfg.Directory == nil {
		a.println("Attendee list is not configured.")
		return nil
	}
	if err := a.cfg.Directory.AddEmail(ctx, email); err != nil {
		a.printf("Error: %v\n", err)
		return nil
	}
	a.printf("Email '%s' added to attendees list.\n", strings.TrimSpace(email))
	return nil
}

func (a *App) export() {
	events := a.cfg.Registry.Snapshot()
	if len(events) == 0 {
		a.println("No events to export.")
		return
	}
	if a.cfg.JSONExport != "" {
		if err := jsonfile.Write(a.cfg.JSONExport, events); err != nil {
			a.printf("Error exporting events: %v\n", err)
			return
		}
		a.printf("All events exported to '%s'.\n", a.cfg.JSONExport)
	}
	if a.cfg.ICSExport != "" {
		n, err := ics.WriteFile(a.cfg.ICSExport, events, a.cfg.Now())
		if err != nil {
			a.printf("Error exporting calendar: %v\n", err)
			return
		}
		a.printf("%d events exported to '%s'.\n", n, a.cfg.ICSExport)
	}
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
