package event

import (
	"slices"
	"strings"
	"time"
)

// ListByDate returns the events on day ordered by time of day.
func ListByDate(events []Event, day time.Time) []Event {
	want := FormatDate(day)

	var matched []Event
	for _, ev := range events {
		d, err := ParseDate(ev.Date)
		if err != nil || FormatDate(d) != want {
			continue
		}
		matched = append(matched, ev)
	}
	return sortByStart(matched)
}

// ListAll returns every well-formed event ordered by (date, time).
func ListAll(events []Event) []Event {
	return sortByStart(events)
}

// Search matches keyword case-insensitively against name or type and
// orders the hits by (date, time).
func Search(events []Event, keyword string) []Event {
	needle := strings.ToLower(keyword)

	var hits []Event
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Name), needle) ||
			strings.Contains(strings.ToLower(ev.Type), needle) {
			hits = append(hits, ev)
		}
	}
	return sortByStart(hits)
}

// UpcomingWithin returns the events dated target, in their stored order.
func UpcomingWithin(events []Event, target time.Time) []Event {
	want := FormatDate(target)

	var upcoming []Event
	for _, ev := range events {
		d, err := ParseDate(ev.Date)
		if err != nil {
			continue
		}
		if FormatDate(d) == want {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming
}

type keyed struct {
	start time.Time
	ev    Event
}

// sortByStart drops unparseable events and stable-sorts the rest by start.
func sortByStart(events []Event) []Event {
	items := make([]keyed, 0, len(events))
	for _, ev := range events {
		start, err := ev.Start()
		if err != nil {
			continue
		}
		items = append(items, keyed{start: start, ev: ev})
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return a.start.Compare(b.start)
	})

	out := make([]Event, len(items))
	for i, item := range items {
		out[i] = item.ev
	}
	return out
}
