package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/eventdesk/internal/domain/activity"
)

// maxIDAttempts bounds the regenerate-on-collision loop for new ids.
const maxIDAttempts = 16

// ErrIDExhausted indicates no unused id could be generated.
var ErrIDExhausted = errors.New("could not generate a unique event id")

// Registry owns the in-memory event set and keeps it consistent across
// add, edit and delete. Every mutation is validated in full, persisted
// through the store, and only then committed in memory.
type Registry struct {
	mu         sync.Mutex
	events     []Event
	store      Store
	activities ActivityRepository
	logger     *slog.Logger
	recorder   Recorder
	newID      func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDSource overrides the id generator.
func WithIDSource(fn func() string) Option {
	return func(r *Registry) {
		r.newID = fn
	}
}

// WithRecorder reports mutation outcomes and the registry size to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// NewRegistry creates an empty registry backed by store. activities may be nil.
func NewRegistry(store Store, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		store:      store,
		activities: activities,
		logger:     logger,
		newID:      NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewID returns a short token cut from a random UUID.
func NewID() string {
	return uuid.NewString()[:IDLength]
}

// Load replaces the in-memory set with the store's contents. A failing
// store yields an empty registry; the failure is logged, not returned.
func (r *Registry) Load(ctx context.Context) int {
	events, err := r.store.LoadAll(ctx)
	if err != nil {
		r.logger.Warn("loading events failed, starting empty", "error", err)
		events = nil
	}

	malformed := 0
	for _, ev := range events {
		if !ev.Valid() {
			malformed++
			r.logger.Warn("stored event has malformed date or time", "id", ev.ID, "date", ev.Date, "time", ev.Time)
		}
	}

	r.mu.Lock()
	r.events = events
	r.mu.Unlock()
	r.setCount(len(events))

	r.logger.Info("events loaded", "count", len(events), "malformed", malformed)
	return len(events)
}

// Find resolves identifier by exact id or case-insensitive name. Ids and
// names share one namespace: the first event in stored order that matches
// either way wins.
func (r *Registry) Find(identifier string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(identifier)
	if idx < 0 {
		return Event{}, false
	}
	return r.events[idx], true
}

// Add validates and stores a new event.
func (r *Registry) Add(ctx context.Context, f Fields) (*Event, error) {
	ev, err := r.add(ctx, f)
	r.observe("add", err)
	return ev, err
}

func (r *Registry) add(ctx context.Context, f Fields) (*Event, error) {
	if err := ValidateFields(f); err != nil {
		return nil, err
	}
	candidate := normalize(Event{
		Name:     f.Name,
		Date:     f.Date,
		Time:     f.Time,
		Type:     f.Type,
		Location: f.Location,
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasKey(candidate.Name, candidate.Date) {
		return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateKey, candidate.Name, candidate.Date)
	}

	if with, found := FindConflict(r.events, candidate, ""); found {
		suggestions, _ := SuggestFor(r.events, candidate.Date)
		return nil, &ConflictError{With: with, Suggestions: suggestions}
	}

	id, err := r.uniqueID()
	if err != nil {
		return nil, err
	}
	candidate.ID = id

	next := append(slices.Clone(r.events), candidate)
	if err := r.store.SaveAll(ctx, next); err != nil {
		return nil, fmt.Errorf("saving events: %w", err)
	}
	r.events = next
	r.setCount(len(next))

	r.logActivity(ctx, activity.TypeEventAdded, candidate, fmt.Sprintf("added event %s", candidate.ID))
	r.logger.Info("event added", "id", candidate.ID, "name", candidate.Name, "date", candidate.Date, "time", candidate.Time)

	return &candidate, nil
}

// Edit replaces the fields of the event resolved by identifier. Blank
// fields keep their current values; the id never changes.
func (r *Registry) Edit(ctx context.Context, identifier string, f Fields) (*Event, error) {
	ev, err := r.edit(ctx, func() int { return r.indexOf(identifier) }, f)
	r.observe("edit", err)
	return ev, err
}

// EditByID is Edit for an event that was already resolved: only an exact
// id match is considered, never a name.
func (r *Registry) EditByID(ctx context.Context, id string, f Fields) (*Event, error) {
	ev, err := r.edit(ctx, func() int { return r.indexByID(id) }, f)
	r.observe("edit", err)
	return ev, err
}

// edit runs under the lock; locate picks the target index.
func (r *Registry) edit(ctx context.Context, locate func() int, f Fields) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := locate()
	if idx < 0 {
		return nil, ErrNotFound
	}
	current := r.events[idx]

	candidate := merge(current, f)
	if _, err := ParseStart(candidate.Date, candidate.Time); err != nil {
		return nil, err
	}
	candidate = normalize(candidate)

	if with, found := FindConflict(r.events, candidate, current.ID); found {
		others := slices.DeleteFunc(slices.Clone(r.events), func(ev Event) bool { return ev.ID == current.ID })
		suggestions, _ := SuggestFor(others, candidate.Date)
		return nil, &ConflictError{With: with, Suggestions: suggestions}
	}

	next := slices.Clone(r.events)
	next[idx] = candidate
	if err := r.store.SaveAll(ctx, next); err != nil {
		return nil, fmt.Errorf("saving events: %w", err)
	}
	r.events = next
	r.setCount(len(next))

	r.logActivity(ctx, activity.TypeEventEdited, candidate, fmt.Sprintf("edited event %s", candidate.ID))
	r.logger.Info("event edited", "id", candidate.ID, "name", candidate.Name, "date", candidate.Date, "time", candidate.Time)

	return &candidate, nil
}

// Delete removes the event resolved by identifier and returns it.
func (r *Registry) Delete(ctx context.Context, identifier string) (*Event, error) {
	ev, err := r.remove(ctx, identifier)
	r.observe("delete", err)
	return ev, err
}

func (r *Registry) remove(ctx context.Context, identifier string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(identifier)
	if idx < 0 {
		return nil, ErrNotFound
	}
	removed := r.events[idx]

	next := slices.Delete(slices.Clone(r.events), idx, idx+1)
	if err := r.store.SaveAll(ctx, next); err != nil {
		return nil, fmt.Errorf("saving events: %w", err)
	}
	r.events = next
	r.setCount(len(next))

	r.logActivity(ctx, activity.TypeEventDeleted, removed, fmt.Sprintf("deleted event %s", removed.ID))
	r.logger.Info("event deleted", "id", removed.ID, "name", removed.Name)

	return &removed, nil
}

// Snapshot returns a copy of the current event set in stored order.
func (r *Registry) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// ListAll returns all well-formed events ordered by (date, time).
func (r *Registry) ListAll() []Event {
	return ListAll(r.Snapshot())
}

// ListByDate returns the events on a canonical date ordered by time.
func (r *Registry) ListByDate(date string) ([]Event, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return ListByDate(r.Snapshot(), day), nil
}

// Search returns events whose name or type contains keyword.
func (r *Registry) Search(keyword string) []Event {
	return Search(r.Snapshot(), keyword)
}

// Upcoming returns the events dated the day after today.
func (r *Registry) Upcoming(today time.Time) []Event {
	return UpcomingWithin(r.Snapshot(), today.AddDate(0, 0, 1))
}

// Suggest proposes free hourly slots on a canonical date.
func (r *Registry) Suggest(date string) ([]string, error) {
	return SuggestFor(r.Snapshot(), date)
}

func (r *Registry) indexOf(identifier string) int {
	for i, ev := range r.events {
		if ev.ID == identifier || strings.EqualFold(ev.Name, identifier) {
			return i
		}
	}
	return -1
}

func (r *Registry) indexByID(id string) int {
	return slices.IndexFunc(r.events, func(ev Event) bool { return ev.ID == id })
}

func (r *Registry) hasKey(name, date string) bool {
	key := dateKey(date)
	for _, ev := range r.events {
		if strings.EqualFold(ev.Name, name) && dateKey(ev.Date) == key {
			return true
		}
	}
	return false
}

func (r *Registry) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := r.newID()
		if !slices.ContainsFunc(r.events, func(ev Event) bool { return ev.ID == id }) {
			return id, nil
		}
		r.logger.Debug("generated id collides, retrying", "id", id)
	}
	return "", ErrIDExhausted
}

func (r *Registry) observe(op string, err error) {
	if r.recorder != nil {
		r.recorder.ObserveMutation(op, err)
	}
}

func (r *Registry) setCount(n int) {
	if r.recorder != nil {
		r.recorder.SetEventCount(n)
	}
}

func (r *Registry) logActivity(ctx context.Context, typ activity.ActivityType, ev Event, summary string) {
	if r.activities == nil {
		return
	}
	id := ev.ID
	err := r.activities.Log(ctx, &activity.ActivityEntry{
		EventID:      &id,
		ActivityType: typ,
		Summary:      summary,
		Details:      ev.String(),
	})
	if err != nil {
		r.logger.Warn("logging activity failed", "id", ev.ID, "error", err)
	}
}
