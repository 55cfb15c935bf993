/*
merge.go - Default template merge, day rollover and checklist edits

PURPOSE:
  Reconciles the stored routine list of a day against the fixed default
  template, and detects when the calendar day advanced since the last save.

MERGE ORDER:
  1. Every default, in template order, with the stored entry of the same
     name overlaid (completed and isDefault come from storage).
  2. Every stored entry whose name is not a default, isDefault forced false,
     in storage order.

NAME IDENTITY:
  Names compare after trimming and Unicode NFC normalisation, so "Study" and
  a decomposed-accent twin of the same text are one routine. A day holds at
  most one routine per name: on merge the first stored occurrence wins, and
  AddRoutine rejects a duplicate.

ROLLOVER:
  When the stored currentDate differs from today, the stored list is
  archived into history under its own date (overwriting any earlier archive
  of that date) and today restarts from the untouched template. History is
  read-only after archival; only rollover writes it.
*/
package habit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

func nameKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// MergeRoutines combines the default template with a day's stored list.
func MergeRoutines(defaults, stored []Routine) []Routine {
	byName := make(map[string]Routine, len(stored))
	for _, r := range stored {
		k := nameKey(r.Name)
		if _, seen := byName[k]; !seen {
			byName[k] = r
		}
	}

	merged := make([]Routine, 0, len(defaults)+len(stored))
	isDefault := make(map[string]bool, len(defaults))
	for _, def := range defaults {
		k := nameKey(def.Name)
		isDefault[k] = true
		entry := def
		if s, ok := byName[k]; ok {
			entry.Completed = s.Completed
			entry.IsDefault = s.IsDefault
		}
		merged = append(merged, entry)
	}

	emitted := make(map[string]bool)
	for _, r := range stored {
		k := nameKey(r.Name)
		if isDefault[k] || emitted[k] {
			continue
		}
		emitted[k] = true
		merged = append(merged, Routine{Name: r.Name, Completed: r.Completed, IsDefault: false})
	}
	return merged
}

// DayState is the client's effective state after reconciliation.
type DayState struct {
	Today    Date
	Routines []Routine
	History  History
	// RolledOver is true when the stored day was archived on this load.
	RolledOver bool
}

// Reconcile derives today's effective state from the stored document.
// A nil document is a cold start: defaults and empty history.
func Reconcile(doc *Document, today Date) DayState {
	state := DayState{Today: today}
	if doc == nil || doc.CurrentDate == "" {
		state.Routines = DefaultRoutines()
		state.History = History{}
		return state
	}

	state.History = doc.History.Clone()
	if doc.CurrentDate == today {
		state.Routines = MergeRoutines(DefaultRoutines(), doc.Today)
	} else {
		if len(doc.Today) > 0 {
			state.History[doc.CurrentDate] = Project(doc.Today)
		}
		state.Routines = DefaultRoutines()
		state.RolledOver = true
	}
	// today lives in Routines until its own rollover
	delete(state.History, today)
	return state
}

// =============================================================================
// CHECKLIST EDITS - return a new list, never mutate the input
// =============================================================================

// ToggleRoutine flips the completion flag at index i.
func ToggleRoutine(list []Routine, i int) []Routine {
	out := CloneRoutines(list)
	if i < 0 || i >= len(out) {
		return out
	}
	out[i].Completed = !out[i].Completed
	return out
}

// AddRoutine appends a custom routine named strings.TrimSpace(name).
func AddRoutine(list []Routine, name string) ([]Routine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return list, ErrEmptyName
	}
	k := nameKey(name)
	for _, r := range list {
		if nameKey(r.Name) == k {
			return list, &RoutineError{Name: name, Err: ErrDuplicateRoutine}
		}
	}
	out := CloneRoutines(list)
	return append(out, Routine{Name: name}), nil
}

// DeleteRoutine removes the custom routine at index i.
func DeleteRoutine(list []Routine, i int) ([]Routine, error) {
	if i < 0 || i >= len(list) {
		return list, nil
	}
	if list[i].IsDefault {
		return list, &RoutineError{Name: list[i].Name, Err: ErrDefaultRoutine}
	}
	out := make([]Routine, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// IndexOf finds a routine by name identity, -1 when absent.
func IndexOf(list []Routine, name string) int {
	k := nameKey(name)
	for i, r := range list {
		if nameKey(r.Name) == k {
			return i
		}
	}
	return -1
}
