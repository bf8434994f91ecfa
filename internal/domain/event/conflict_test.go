package event_test

import (
	"testing"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func at(id, date, clock string) event.Event {
	return event.Event{ID: id, Name: "ev-" + id, Date: date, Time: clock}
}

func TestConflicts_Boundaries(t *testing.T) {
	cases := []struct {
		name     string
		existing string
		probe    string
		want     bool
	}{
		{name: "same start", existing: "10:00", probe: "10:00", want: true},
		{name: "half hour later", existing: "10:00", probe: "10:30", want: true},
		{name: "half hour earlier", existing: "10:00", probe: "09:30", want: true},
		{name: "one minute before end", existing: "10:00", probe: "10:59", want: true},
		{name: "adjacent after", existing: "10:00", probe: "11:00", want: false},
		{name: "adjacent before", existing: "10:00", probe: "09:00", want: false},
		{name: "far apart", existing: "10:00", probe: "15:00", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := []event.Event{at("a", "01-01-2030", tc.existing)}
			got := event.Conflicts(existing, at("b", "01-01-2030", tc.probe), "")
			require.Equal(t, tc.want, got)
		})
	}
}

func TestConflicts_Symmetric(t *testing.T) {
	times := []string{"00:00", "08:45", "09:00", "09:30", "10:00", "10:59", "11:00", "23:30"}
	for _, ta := range times {
		for _, tb := range times {
			a := at("a", "01-01-2030", ta)
			b := at("b", "01-01-2030", tb)
			require.Equal(t,
				event.Conflicts([]event.Event{a}, b, ""),
				event.Conflicts([]event.Event{b}, a, ""),
				"asymmetric for %s / %s", ta, tb)
		}
	}
}

func TestConflicts_AcrossMidnight(t *testing.T) {
	existing := []event.Event{at("a", "01-01-2030", "23:30")}

	require.True(t, event.Conflicts(existing, at("b", "02-01-2030", "00:00"), ""))
	require.False(t, event.Conflicts(existing, at("b", "02-01-2030", "00:30"), ""))
}

func TestConflicts_DifferentDays(t *testing.T) {
	existing := []event.Event{at("a", "01-01-2030", "10:00")}
	require.False(t, event.Conflicts(existing, at("b", "02-01-2030", "10:00"), ""))
}

func TestConflicts_ExcludesOwnID(t *testing.T) {
	existing := []event.Event{at("a", "01-01-2030", "10:00")}
	require.False(t, event.Conflicts(existing, at("a", "01-01-2030", "10:15"), "a"))
	require.True(t, event.Conflicts(existing, at("a", "01-01-2030", "10:15"), "other"))
}

func TestConflicts_MalformedCandidateNeverConflicts(t *testing.T) {
	existing := []event.Event{at("a", "01-01-2030", "10:00")}

	require.False(t, event.Conflicts(existing, at("b", "2030-01-01", "10:00"), ""))
	require.False(t, event.Conflicts(existing, at("b", "01-01-2030", "10am"), ""))
	require.False(t, event.Conflicts(existing, event.Event{}, ""))
}

func TestConflicts_MalformedExistingSkipped(t *testing.T) {
	existing := []event.Event{
		at("bad", "31-02-2030", "10:00"),
		at("worse", "01-01-2030", "25:00"),
	}
	require.False(t, event.Conflicts(existing, at("b", "01-01-2030", "10:00"), ""))

	existing = append(existing, at("good", "01-01-2030", "10:30"))
	with, found := event.FindConflict(existing, at("b", "01-01-2030", "10:00"), "")
	require.True(t, found)
	require.Equal(t, "good", with.ID)
}

func TestConflicts_SingleDigitDayAndMonth(t *testing.T) {
	start, err := event.ParseStart("2-2-2030", "09:00")
	require.NoError(t, err)
	require.Equal(t, "02-02-2030", event.FormatDate(start))

	with, found := event.FindConflict([]event.Event{at("old", "5-5-2030", "10:00")}, at("b", "05-05-2030", "10:30"), "")
	require.True(t, found)
	require.Equal(t, "old", with.ID)
}
