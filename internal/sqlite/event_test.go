package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/eventdesk/internal/domain/event"
	"github.com/stretchr/testify/require"
)

func TestEventStore_EmptyLoad(t *testing.T) {
	db := NewTestDB(t)

	events, err := NewEventStore(db).LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEventStore_SaveAllLoadAllKeepsOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	store := NewEventStore(db)

	events := []event.Event{
		{ID: "zz000001", Name: "Late", Date: "09-09-2030", Time: "18:00", Type: "social", Location: "Bar"},
		{ID: "aa000002", Name: "Early", Date: "01-01-2030", Time: "07:00", Type: "ops"},
		{ID: "mm000003", Name: "Corrupt", Date: "not-a-date", Time: "??"},
	}
	require.NoError(t, store.SaveAll(ctx, events))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, events, loaded)
}

func TestEventStore_SaveAllReplaces(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	store := NewEventStore(db)

	require.NoError(t, store.SaveAll(ctx, []event.Event{
		{ID: "a1", Name: "One", Date: "01-01-2030", Time: "07:00"},
		{ID: "a2", Name: "Two", Date: "01-01-2030", Time: "09:00"},
	}))
	require.NoError(t, store.SaveAll(ctx, []event.Event{
		{ID: "a2", Name: "Two", Date: "01-01-2030", Time: "10:00"},
	}))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "10:00", loaded[0].Time)

	require.NoError(t, store.SaveAll(ctx, nil))
	loaded, err = store.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestEventStore_BacksRegistry(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	reg := event.NewRegistry(NewEventStore(db), NewActivityRepository(db), nil)
	reg.Load(ctx)

	added, err := reg.Add(ctx, event.Fields{Name: "Kickoff", Date: "03-03-2030", Time: "10:00", Type: "meeting"})
	require.NoError(t, err)

	reloaded := event.NewRegistry(NewEventStore(db), nil, nil)
	require.Equal(t, 1, reloaded.Load(ctx))
	found, ok := reloaded.Find("kickoff")
	require.True(t, ok)
	require.Equal(t, *added, found)

	var logged int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_log WHERE event_id = ?`, added.ID).Scan(&logged))
	require.Equal(t, 1, logged)
}
