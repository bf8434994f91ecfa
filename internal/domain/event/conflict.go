package event

import "time"

// Conflicts reports whether candidate's window overlaps any event in
// existing other than the one with excludeID.
//
// A candidate whose date or time does not parse never conflicts, and
// existing events that do not parse never block.
func Conflicts(existing []Event, candidate Event, excludeID string) bool {
	_, found := FindConflict(existing, candidate, excludeID)
	return found
}

// FindConflict returns the first event in existing that overlaps candidate.
func FindConflict(existing []Event, candidate Event, excludeID string) (Event, bool) {
	start, end, err := candidate.Window()
	if err != nil {
		return Event{}, false
	}

	for _, ev := range existing {
		if excludeID != "" && ev.ID == excludeID {
			continue
		}
		evStart, evEnd, err := ev.Window()
		if err != nil {
			continue
		}
		if overlaps(start, end, evStart, evEnd) {
			return ev, true
		}
	}
	return Event{}, false
}

// overlaps applies the half-open interval test max(starts) < min(ends).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	latestStart := aStart
	if bStart.After(latestStart) {
		latestStart = bStart
	}
	earliestEnd := aEnd
	if bEnd.Before(earliestEnd) {
		earliestEnd = bEnd
	}
	return latestStart.Before(earliestEnd)
}
