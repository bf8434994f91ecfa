// Package notify delivers event reminders to attendees.
package notify

import (
	"fmt"
	"strings"

	"github.com/rpggio/eventdesk/internal/domain/event"
)

// Subject returns the reminder subject line for ev.
func Subject(ev event.Event) string {
	return "Reminder: Upcoming Event - " + ev.Name
}

// Body returns the plain-text reminder body for ev.
func Body(ev event.Event) string {
	location := strings.TrimSpace(ev.Location)
	if location == "" {
		location = "Not specified"
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "This is a friendly reminder for the upcoming event: %s\n\n", ev.Name)
	fmt.Fprintf(&b, "Date: %s\n", ev.Date)
	fmt.Fprintf(&b, "Time: %s\n", ev.Time)
	fmt.Fprintf(&b, "Location: %s\n\n", location)
	b.WriteString("We look forward to seeing you there!\n")
	return b.String()
}
