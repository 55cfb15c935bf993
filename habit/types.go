/*
Package habit provides the core model and state logic of the MonkMode tracker.

PURPOSE:
  Holds the single persisted Document (today's routines, archived history,
  journal logs, rules) and every pure computation the client performs on it:
  routine template merge, day rollover, streaks and progress aggregation.
  Nothing in this package performs I/O except through the DocumentStore
  interface defined in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Routine: a named daily task with a completion flag
  - Document: the one record that exists per deployment
  - Snapshot: the subset of the Document replaced by a save
  - Rule: an append-only personal note with a server-side timestamp

SINGLETON:
  Exactly one Document exists. Stores address it by a fixed well-known key
  rather than by "the first document", and create it on the first snapshot.

SEE ALSO:
  - date.go: Local-calendar Date type used as history/log keys
  - merge.go: Default template merge and rollover
  - streak.go, progress.go: Derived views
  - store.go: Persistence interface
*/
package habit

import "time"

// =============================================================================
// ROUTINES
// =============================================================================

// Routine is one entry of a day's checklist. Identity is Name within a day.
type Routine struct {
	Name      string `json:"name" bson:"name"`
	Completed bool   `json:"completed" bson:"completed"`
	IsDefault bool   `json:"isDefault" bson:"isDefault"`
}

// CustomTasks is the synthetic task that aggregates every non-default routine.
const CustomTasks = "Custom Tasks"

var defaultRoutineNames = []string{
	"Gym",
	"Eat Healthy",
	"Drink Water",
	"Prototype Progress",
	"Study",
}

// DefaultRoutines returns a fresh copy of the fixed template, all incomplete.
func DefaultRoutines() []Routine {
	out := make([]Routine, len(defaultRoutineNames))
	for i, name := range defaultRoutineNames {
		out[i] = Routine{Name: name, IsDefault: true}
	}
	return out
}

// DefaultCount is the size of the default template.
func DefaultCount() int { return len(defaultRoutineNames) }

// IsDefaultName reports whether name belongs to the default template.
func IsDefaultName(name string) bool {
	key := nameKey(name)
	for _, n := range defaultRoutineNames {
		if nameKey(n) == key {
			return true
		}
	}
	return false
}

// TaskOptions lists the selectable tasks of the progress dashboard.
func TaskOptions() []string {
	out := append([]string{}, defaultRoutineNames...)
	return append(out, CustomTasks)
}

// CloneRoutines returns a copy of list that never aliases it. nil stays nil.
func CloneRoutines(list []Routine) []Routine {
	if list == nil {
		return nil
	}
	out := make([]Routine, len(list))
	copy(out, list)
	return out
}

// Project keeps only the persisted routine fields.
// Routine has no other fields today; archive through here anyway so
// history never picks up anything beyond {name, completed, isDefault}.
func Project(list []Routine) []Routine {
	out := make([]Routine, 0, len(list))
	for _, r := range list {
		out = append(out, Routine{Name: r.Name, Completed: r.Completed, IsDefault: r.IsDefault})
	}
	return out
}

// AllCompleted reports whether list is non-empty and every entry is done.
func AllCompleted(list []Routine) bool {
	if len(list) == 0 {
		return false
	}
	for _, r := range list {
		if !r.Completed {
			return false
		}
	}
	return true
}

// =============================================================================
// DOCUMENT
// =============================================================================

// History maps an archived date to the routines as they stood at end of day.
type History map[Date][]Routine

// Clone deep-copies h. A nil History clones to an empty one.
func (h History) Clone() History {
	out := make(History, len(h))
	for d, list := range h {
		out[d] = CloneRoutines(list)
	}
	return out
}

// Rule is an append-only personal lesson.
type Rule struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Document is the singleton persisted record.
type Document struct {
	CurrentDate Date            `json:"currentDate" bson:"currentDate"`
	Today       []Routine       `json:"today" bson:"today"`
	History     History         `json:"history" bson:"history"`
	Logs        map[Date]string `json:"logs" bson:"logs"`
	Rules       []Rule          `json:"rules" bson:"rules"`
}

// Normalize fills absent collections with empty ones so responses never carry null.
func (d *Document) Normalize() {
	if d.Today == nil {
		d.Today = []Routine{}
	}
	if d.History == nil {
		d.History = History{}
	}
	if d.Logs == nil {
		d.Logs = map[Date]string{}
	}
	if d.Rules == nil {
		d.Rules = []Rule{}
	}
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		CurrentDate: d.CurrentDate,
		Today:       CloneRoutines(d.Today),
		History:     d.History.Clone(),
		Logs:        make(map[Date]string, len(d.Logs)),
		Rules:       append([]Rule{}, d.Rules...),
	}
	for k, v := range d.Logs {
		out.Logs[k] = v
	}
	out.Normalize()
	return out
}

// Snapshot is the payload of a save: replaces these three fields wholesale.
type Snapshot struct {
	CurrentDate Date      `json:"currentDate"`
	Today       []Routine `json:"today"`
	History     History   `json:"history"`
}

// Snapshot extracts the saveable part of the document.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		CurrentDate: d.CurrentDate,
		Today:       CloneRoutines(d.Today),
		History:     d.History.Clone(),
	}
}
