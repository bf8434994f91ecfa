package event

import "strings"

// ValidateFields validates the fields required to add an event.
func ValidateFields(f Fields) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidInput
	}
	_, err := ParseStart(f.Date, f.Time)
	return err
}

// normalize trims every field and rewrites date and time in canonical form.
// Callers must have validated the schedule first.
func normalize(ev Event) Event {
	ev.Name = strings.TrimSpace(ev.Name)
	ev.Type = strings.TrimSpace(ev.Type)
	ev.Location = strings.TrimSpace(ev.Location)
	if start, err := ParseStart(ev.Date, ev.Time); err == nil {
		ev.Date = start.Format(DateLayout)
		ev.Time = start.Format(TimeLayout)
	}
	return ev
}

// merge overlays the non-blank fields of f onto current.
func merge(current Event, f Fields) Event {
	out := current
	if v := strings.TrimSpace(f.Name); v != "" {
		out.Name = v
	}
	if v := strings.TrimSpace(f.Date); v != "" {
		out.Date = v
	}
	if v := strings.TrimSpace(f.Time); v != "" {
		out.Time = v
	}
	if v := strings.TrimSpace(f.Type); v != "" {
		out.Type = v
	}
	if v := strings.TrimSpace(f.Location); v != "" {
		out.Location = v
	}
	return out
}

// dateKey is the comparison form of a date for the (name, date) key.
func dateKey(date string) string {
	if d, err := ParseDate(date); err == nil {
		return FormatDate(d)
	}
	return strings.TrimSpace(date)
}
