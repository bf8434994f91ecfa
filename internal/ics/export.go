// Package ics renders the event set as an iCalendar feed.
package ics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/rpggio/eventdesk/internal/domain/event"
)

// ProductID identifies the producer in exported calendars.
const ProductID = "-//eventdesk//event registry//EN"

// floatingLayout is a DATE-TIME with no zone; events carry no timezone.
const floatingLayout = "20060102T150405"

// Export builds a calendar with one VEVENT per well-formed event. Events
// whose date or time does not parse are skipped and counted.
func Export(events []event.Event, stamp time.Time) (*ical.Calendar, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	skipped := 0
	for _, ev := range events {
		start, end, err := ev.Window()
		if err != nil {
			skipped++
			continue
		}

		ve := cal.AddEvent(UID(ev))
		ve.SetDtStampTime(stamp.UTC())
		ve.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ve.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
		ve.SetSummary(ev.Name)
		if loc := strings.TrimSpace(ev.Location); loc != "" {
			ve.SetLocation(loc)
		}
		if typ := strings.TrimSpace(ev.Type); typ != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, typ)
		}
		ve.SetDescription(ev.String())
	}
	return cal, skipped
}

// UID returns the iCalendar UID of ev.
func UID(ev event.Event) string {
	return ev.ID + "@eventdesk"
}

// WriteFile serializes the calendar for events to path.
func WriteFile(path string, events []event.Event, stamp time.Time) (int, error) {
	if path == "" {
		return 0, errors.New("calendar path is empty")
	}
	cal, skipped := Export(events, stamp)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create calendar dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return 0, fmt.Errorf("write calendar: %w", err)
	}
	return len(events) - skipped, nil
}
