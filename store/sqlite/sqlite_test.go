package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkmode/monkmode/habit"
	"github.com/monkmode/monkmode/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot() habit.Snapshot {
	today := habit.DefaultRoutines()
	today[0].Completed = true
	today = append(today, habit.Routine{Name: "Read", Completed: false})
	return habit.Snapshot{
		CurrentDate: habit.MustDate("2024-03-10"),
		Today:       today,
		History: habit.History{
			habit.MustDate("2024-03-09"): {{Name: "Gym", Completed: true, IsDefault: true}},
		},
	}
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_EmptyDatabase_NotFound(t *testing.T) {
	// GIVEN: A fresh database
	store := newTestStore(t)

	// WHEN: Loading the document
	doc, err := store.Load(context.Background())

	// THEN: NotFound, no document
	assert.Nil(t, doc)
	assert.True(t, habit.IsNotFound(err))
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func TestSaveSnapshot_CreatesDocument(t *testing.T) {
	// GIVEN: A fresh database
	store := newTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot()

	// WHEN: Saving a snapshot
	saved, err := store.SaveSnapshot(ctx, snap)
	require.NoError(t, err)

	// THEN: The snapshot fields round-trip and the other collections are empty, not nil
	assert.Equal(t, snap.CurrentDate, saved.CurrentDate)
	assert.Equal(t, snap.Today, saved.Today)
	assert.Equal(t, snap.History, saved.History)
	assert.NotNil(t, saved.Logs)
	assert.Empty(t, saved.Logs)
	assert.NotNil(t, saved.Rules)
	assert.Empty(t, saved.Rules)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveSnapshot_Idempotent(t *testing.T) {
	// GIVEN: A stored snapshot
	store := newTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot()
	first, err := store.SaveSnapshot(ctx, snap)
	require.NoError(t, err)

	// WHEN: Saving the same snapshot again
	second, err := store.SaveSnapshot(ctx, snap)
	require.NoError(t, err)

	// THEN: Same document
	assert.Equal(t, first, second)
}

func TestSaveSnapshot_PreservesLogsAndRules(t *testing.T) {
	// GIVEN: A document with a log and a rule
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.SaveSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	_, err = store.SetLog(ctx, habit.MustDate("2024-03-10"), "good day")
	require.NoError(t, err)
	_, err = store.AppendRule(ctx, habit.Rule{ID: "r1", Text: "sleep early", CreatedAt: time.Now()})
	require.NoError(t, err)

	// WHEN: Replacing the snapshot with an empty day
	doc, err := store.SaveSnapshot(ctx, habit.Snapshot{CurrentDate: habit.MustDate("2024-03-11")})
	require.NoError(t, err)

	// THEN: Today and history are replaced wholesale; logs and rules survive
	assert.Equal(t, habit.MustDate("2024-03-11"), doc.CurrentDate)
	assert.Empty(t, doc.Today)
	assert.Empty(t, doc.History)
	assert.Equal(t, "good day", doc.Logs[habit.MustDate("2024-03-10")])
	require.Len(t, doc.Rules, 1)
	assert.Equal(t, "sleep early", doc.Rules[0].Text)
}

// =============================================================================
// LOGS
// =============================================================================

func TestSetLog_NoDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SetLog(context.Background(), habit.MustDate("2024-03-10"), "hello")

	assert.ErrorIs(t, err, habit.ErrDocumentNotFound)
}

func TestSetLog_TouchesOnlyItsDate(t *testing.T) {
	// GIVEN: Logs on two dates
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.SaveSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	_, err = store.SetLog(ctx, habit.MustDate("2024-03-09"), "yesterday")
	require.NoError(t, err)
	_, err = store.SetLog(ctx, habit.MustDate("2024-03-10"), "draft")
	require.NoError(t, err)

	// WHEN: Overwriting one of them
	doc, err := store.SetLog(ctx, habit.MustDate("2024-03-10"), "final")
	require.NoError(t, err)

	// THEN: Only that date changed
	assert.Equal(t, map[habit.Date]string{
		habit.MustDate("2024-03-09"): "yesterday",
		habit.MustDate("2024-03-10"): "final",
	}, doc.Logs)
}

// =============================================================================
// RULES
// =============================================================================

func TestAppendRule_NoDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AppendRule(context.Background(), habit.Rule{ID: "r1", Text: "x", CreatedAt: time.Now()})

	assert.ErrorIs(t, err, habit.ErrDocumentNotFound)
}

func TestAppendRule_KeepsInsertionOrder(t *testing.T) {
	// GIVEN: A document
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.SaveSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	// WHEN: Appending three rules
	for i, text := range []string{"first", "second", "third"} {
		_, err := store.AppendRule(ctx, habit.Rule{
			ID:        text,
			Text:      text,
			CreatedAt: at.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// THEN: Returned in insertion order with timestamps intact
	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Rules, 3)
	assert.Equal(t, "first", doc.Rules[0].Text)
	assert.Equal(t, "third", doc.Rules[2].Text)
	assert.True(t, doc.Rules[1].CreatedAt.Equal(at.Add(time.Minute)))
}

func TestLoad_CorruptRuleTimestamp_Fails(t *testing.T) {
	// GIVEN: A stored rule whose created_at was damaged outside the store
	path := filepath.Join(t.TempDir(), "monkmode.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	_, err = store.SaveSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	_, err = store.AppendRule(ctx, habit.Rule{ID: "r1", Text: "first", CreatedAt: time.Now()})
	require.NoError(t, err)

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec("UPDATE rules SET created_at = 'yesterday' WHERE id = 'r1'")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	// WHEN: Loading
	_, err = store.Load(ctx)

	// THEN: The bad row is reported, not read back as the zero time
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")
}
