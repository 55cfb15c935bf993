package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// =============================================================================
// GENERATORS
// =============================================================================

var sampleNames = []string{
	"Gym", "Eat Healthy", "Drink Water", "Prototype Progress", "Study",
	"Read", "Write", "Meditate", " Read ",
}

func routineGenerator() *rapid.Generator[Routine] {
	return rapid.Custom(func(t *rapid.T) Routine {
		return Routine{
			Name:      rapid.SampledFrom(sampleNames).Draw(t, "name"),
			Completed: rapid.Bool().Draw(t, "completed"),
			IsDefault: rapid.Bool().Draw(t, "isDefault"),
		}
	})
}

func storedListGenerator() *rapid.Generator[[]Routine] {
	return rapid.SliceOfN(routineGenerator(), 0, 12)
}

func names(list []Routine) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Name
	}
	return out
}

// =============================================================================
// MERGE
// =============================================================================

func TestMergeRoutines_Example(t *testing.T) {
	// GIVEN: A stored list in a different order with one custom
	stored := []Routine{
		{Name: "Study", Completed: true, IsDefault: true},
		{Name: "Read", Completed: true, IsDefault: true},
		{Name: "Gym", Completed: false, IsDefault: true},
	}

	// WHEN: Merging with the template
	merged := MergeRoutines(DefaultRoutines(), stored)

	// THEN: Template order first, stored flags overlaid, custom appended as non-default
	assert.Equal(t, []string{"Gym", "Eat Healthy", "Drink Water", "Prototype Progress", "Study", "Read"}, names(merged))
	assert.True(t, merged[4].Completed)
	assert.False(t, merged[0].Completed)
	assert.Equal(t, Routine{Name: "Read", Completed: true}, merged[5])
}

func TestMergeRoutines_DuplicateStoredName_FirstWins(t *testing.T) {
	stored := []Routine{
		{Name: "Read", Completed: true},
		{Name: "Read ", Completed: false},
		{Name: "Gym", Completed: true, IsDefault: true},
		{Name: "Gym", Completed: false, IsDefault: true},
	}

	merged := MergeRoutines(DefaultRoutines(), stored)

	require.Len(t, merged, 6)
	assert.True(t, merged[0].Completed)
	assert.Equal(t, Routine{Name: "Read", Completed: true}, merged[5])
}

func TestMergeRoutines_NormalisedNames(t *testing.T) {
	// "Café" with a combining accent is the same routine as the precomposed form
	stored := []Routine{{Name: "Cafe\u0301", Completed: true}}
	list, err := AddRoutine(MergeRoutines(DefaultRoutines(), stored), "Caf\u00e9")

	assert.ErrorIs(t, err, ErrDuplicateRoutine)
	assert.Len(t, list, 6)
}

func testMergeLaw_Properties(t *rapid.T) {
	stored := storedListGenerator().Draw(t, "stored")
	merged := MergeRoutines(DefaultRoutines(), stored)

	// Property: the first DefaultCount entries are the template, in order
	if len(merged) < DefaultCount() {
		t.Fatalf("merged list shorter than template: %d", len(merged))
	}
	for i, def := range DefaultRoutines() {
		got := merged[i]
		if got.Name != def.Name {
			t.Fatalf("position %d: expected %q, got %q", i, def.Name, got.Name)
		}
		// Property: a stored entry overlays completed and isDefault
		if j := IndexOf(stored, def.Name); j >= 0 {
			if got.Completed != stored[j].Completed || got.IsDefault != stored[j].IsDefault {
				t.Fatalf("%q not overlaid from storage", def.Name)
			}
		} else if got.Completed || !got.IsDefault {
			t.Fatalf("%q should be the untouched template entry", def.Name)
		}
	}

	// Property: customs follow in first-occurrence storage order, non-default, unique
	var want []string
	seen := map[string]bool{}
	for _, r := range stored {
		k := nameKey(r.Name)
		if IsDefaultName(r.Name) || seen[k] {
			continue
		}
		seen[k] = true
		want = append(want, r.Name)
	}
	customs := merged[DefaultCount():]
	if len(customs) != len(want) {
		t.Fatalf("expected %d customs, got %d", len(want), len(customs))
	}
	for i, r := range customs {
		if r.Name != want[i] || r.IsDefault {
			t.Fatalf("custom %d: expected non-default %q, got %+v", i, want[i], r)
		}
	}

	// Property: merging is idempotent
	again := MergeRoutines(DefaultRoutines(), merged)
	if len(again) != len(merged) {
		t.Fatalf("second merge changed length: %d -> %d", len(merged), len(again))
	}
	for i := range merged {
		if again[i] != merged[i] {
			t.Fatalf("second merge changed entry %d: %+v -> %+v", i, merged[i], again[i])
		}
	}
}

func TestMergeLaw_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testMergeLaw_Properties)
}

// =============================================================================
// RECONCILE (ROLLOVER)
// =============================================================================

func TestReconcile_NilDocument(t *testing.T) {
	state := Reconcile(nil, "2024-03-10")

	assert.Equal(t, DefaultRoutines(), state.Routines)
	assert.NotNil(t, state.History)
	assert.Empty(t, state.History)
	assert.False(t, state.RolledOver)
}

func TestReconcile_SameDay_DropsStaleHistoryEntry(t *testing.T) {
	doc := &Document{
		CurrentDate: "2024-03-10",
		Today:       DefaultRoutines(),
		History:     History{"2024-03-10": {{Name: "Gym", Completed: true}}},
	}

	state := Reconcile(doc, "2024-03-10")

	assert.NotContains(t, state.History, Date("2024-03-10"))
	assert.Contains(t, doc.History, Date("2024-03-10"), "input not mutated")
}

func TestReconcile_OverwritesEarlierArchiveOfSameDate(t *testing.T) {
	list := []Routine{{Name: "Gym", Completed: true, IsDefault: true}}
	doc := &Document{
		CurrentDate: "2024-03-09",
		Today:       list,
		History:     History{"2024-03-09": {{Name: "Study"}}},
	}

	state := Reconcile(doc, "2024-03-10")

	assert.Equal(t, list, state.History["2024-03-09"])
}

func testRolloverLaw_Properties(t *rapid.T) {
	stored := storedListGenerator().Draw(t, "stored")
	offset := rapid.IntRange(1, 400).Draw(t, "daysAgo")
	today := Date("2024-03-10")
	storedDate := today.AddDays(-offset)

	state := Reconcile(&Document{CurrentDate: storedDate, Today: stored}, today)

	// Property: the new day starts from the untouched template
	if !state.RolledOver {
		t.Fatal("expected rollover")
	}
	for i, r := range state.Routines {
		if r != DefaultRoutines()[i] {
			t.Fatalf("entry %d is not the template: %+v", i, r)
		}
	}
	// Property: the stored list is archived under its own date iff it was non-empty
	archived, ok := state.History[storedDate]
	if ok != (len(stored) > 0) {
		t.Fatalf("archived=%v for %d stored routines", ok, len(stored))
	}
	if ok && len(archived) != len(stored) {
		t.Fatalf("archive length %d, want %d", len(archived), len(stored))
	}
	// Property: today never appears in history
	if _, ok := state.History[today]; ok {
		t.Fatal("history contains today")
	}
}

func TestRolloverLaw_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testRolloverLaw_Properties)
}

// =============================================================================
// CHECKLIST EDITS
// =============================================================================

func TestAddRoutine(t *testing.T) {
	list := DefaultRoutines()

	_, err := AddRoutine(list, " \t")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = AddRoutine(list, "Study ")
	var rerr *RoutineError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Study", rerr.Name)
	assert.True(t, IsClientError(err))

	out, err := AddRoutine(list, "  Read  ")
	require.NoError(t, err)
	assert.Equal(t, Routine{Name: "Read"}, out[len(out)-1])
	assert.Len(t, list, 5, "input not mutated")
}

func TestDeleteRoutine(t *testing.T) {
	list := append(DefaultRoutines(), Routine{Name: "Read"})

	_, err := DeleteRoutine(list, 1)
	assert.ErrorIs(t, err, ErrDefaultRoutine)

	out, err := DeleteRoutine(list, 5)
	require.NoError(t, err)
	assert.Equal(t, DefaultRoutines(), out)
	assert.Len(t, list, 6, "input not mutated")
}

func TestToggleRoutine(t *testing.T) {
	list := DefaultRoutines()

	out := ToggleRoutine(list, 3)

	assert.True(t, out[3].Completed)
	assert.False(t, list[3].Completed)
	assert.Equal(t, list, ToggleRoutine(list, -1))
}
