package event

import "time"

const (
	// MaxSuggestions caps the number of alternative slots offered.
	MaxSuggestions = 3
	// SlotsPerDay bounds the hourly scan to a single calendar day.
	SlotsPerDay = 24
)

// Suggest returns up to MaxSuggestions free top-of-hour start times on day,
// in ascending order, formatted as HH:MM.
func Suggest(existing []Event, day time.Time) []string {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	suggestions := make([]string, 0, MaxSuggestions)
	for i := 0; i < SlotsPerDay && len(suggestions) < MaxSuggestions; i++ {
		slot := midnight.Add(time.Duration(i) * SlotDuration)
		probe := Event{
			Date: slot.Format(DateLayout),
			Time: slot.Format(TimeLayout),
		}
		if !Conflicts(existing, probe, "") {
			suggestions = append(suggestions, probe.Time)
		}
	}
	return suggestions
}

// SuggestFor parses a canonical date and suggests slots for it.
func SuggestFor(existing []Event, date string) ([]string, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return Suggest(existing, day), nil
}
