package event

import (
	"fmt"
	"strings"
	"time"
)

// Canonical encodings shared with the stores and every front end.
const (
	DateLayout = "02-01-2006"
	TimeLayout = "15:04"

	// dateInputLayout also accepts single-digit days and months, as
	// written by older data files. Output always uses DateLayout.
	dateInputLayout = "2-1-2006"

	// SlotDuration is the fixed length of every event's occupied window.
	SlotDuration = 60 * time.Minute

	// IDLength is the length of generated event ids.
	IDLength = 8
)

// Event is a single scheduled entry in the registry.
// Date and Time are kept in their canonical text form so that malformed
// stored values survive a load/save round trip untouched.
type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Fields carries the user-editable attributes of an event.
type Fields struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

// Start parses the event's date and time into a start instant.
func (e Event) Start() (time.Time, error) {
	return ParseStart(e.Date, e.Time)
}

// Window returns the half-open occupied interval [start, end).
func (e Event) Window() (time.Time, time.Time, error) {
	start, err := e.Start()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(SlotDuration), nil
}

// Valid reports whether the event's date and time parse.
func (e Event) Valid() bool {
	_, err := e.Start()
	return err == nil
}

// String renders the event the way listings print it.
func (e Event) String() string {
	return fmt.Sprintf("[%s] %s - %s %s @ %s (%s)", e.ID, e.Name, e.Date, e.Time, e.Location, e.Type)
}

// ParseDate parses a DD-MM-YYYY date; D-M-YYYY is accepted too.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateInputLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be DD-MM-YYYY", ErrInvalidFormat, value)
	}
	return d, nil
}

// ParseClock parses an HH:MM time of day.
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidFormat, value)
	}
	return t, nil
}

// ParseStart combines a canonical date and time into one instant.
func ParseStart(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// FormatDate renders a day in canonical form.
func FormatDate(day time.Time) string {
	return day.Format(DateLayout)
}
