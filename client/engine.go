/*
engine.go - Client state engine

PURPOSE:
  Owns the in-memory day that every view renders: today's date, the
  routine checklist, archived history, journal logs and rules. Views call
  the Engine; the Engine calls the API.

LIFECYCLE:
  1. Load: fetch the document. Any failure is a cold start (defaults,
     empty history). Reconcile against the local calendar date, then send
     the reconciled snapshot once so a rollover is persisted.
     Inspect does the same for one-shot readers but never saves the
     defaults of a failed fetch.
  2. Toggle / Add / Delete: edit the checklist and send the full
     {currentDate, today, history} snapshot immediately.
  3. CheckRollover: when the calendar day changes while running, archive
     the current list and restart from the template.

FAILED SAVES:
  Logged and dropped. The local state keeps the edit and the next
  successful save resends everything. Nothing is queued or retried.

ORDERING:
  Log and rule replies pass through a Sequencer so a reply that arrives
  after a newer one is discarded.

SEE ALSO:
  - habit/merge.go: Reconcile and checklist edits
  - draft.go: Debounced journal saves
  - watcher.go: Periodic rollover check
*/
package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/monkmode/monkmode/habit"
)

// Engine is the client's view of the document.
type Engine struct {
	API    API
	Logger *log.Logger
	Now    func() time.Time

	seq *Sequencer

	mu       sync.RWMutex
	today    habit.Date
	routines []habit.Routine
	history  habit.History
	logs     map[habit.Date]string
	rules    []habit.Rule
	offline  bool
}

// NewEngine creates an engine over api. Call Load before anything else.
func NewEngine(api API, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		API:      api,
		Logger:   logger,
		Now:      time.Now,
		seq:      NewSequencer(),
		history:  habit.History{},
		logs:     map[habit.Date]string{},
		rules:    []habit.Rule{},
		routines: habit.DefaultRoutines(),
	}
}

// =============================================================================
// LOAD + ROLLOVER
// =============================================================================

// Load fetches and reconciles the document, then persists the result.
func (e *Engine) Load(ctx context.Context) habit.DayState {
	return e.load(ctx, true)
}

// Inspect loads like Load for a one-shot reader. It writes back only a
// document it actually fetched, so a failed read never replaces stored
// history with the cold-start defaults.
func (e *Engine) Inspect(ctx context.Context) habit.DayState {
	return e.load(ctx, false)
}

func (e *Engine) load(ctx context.Context, persistOffline bool) habit.DayState {
	logsTicket := e.seq.Begin(resourceLogs)
	rulesTicket := e.seq.Begin(resourceRules)

	doc, err := e.API.Fetch(ctx)
	offline := false
	if err != nil {
		if !habit.IsNotFound(err) {
			e.Logger.Warn("fetch failed, starting from defaults", "err", err)
			offline = true
		}
		doc = nil
	}

	state := habit.Reconcile(doc, habit.DateOf(e.Now()))

	e.mu.Lock()
	e.today = state.Today
	e.routines = state.Routines
	e.history = state.History
	e.offline = offline
	if doc != nil {
		if e.seq.Apply(resourceLogs, logsTicket) {
			e.logs = cloneLogs(doc.Logs)
		}
		if e.seq.Apply(resourceRules, rulesTicket) {
			e.rules = append([]habit.Rule{}, doc.Rules...)
		}
	}
	e.mu.Unlock()

	if state.RolledOver {
		e.Logger.Info("day rolled over", "today", state.Today)
	}
	if offline && !persistOffline {
		return state
	}
	_ = e.persist(ctx)
	return state
}

// CheckRollover archives the running day when the calendar date advanced.
// It reports whether a rollover happened. Before Load it does nothing.
func (e *Engine) CheckRollover(ctx context.Context) bool {
	now := habit.DateOf(e.Now())

	e.mu.Lock()
	// Not loaded yet, or same day.
	if e.today == "" || now == e.today {
		e.mu.Unlock()
		return false
	}
	prev := e.today
	state := habit.Reconcile(&habit.Document{
		CurrentDate: e.today,
		Today:       e.routines,
		History:     e.history,
	}, now)
	e.today = state.Today
	e.routines = state.Routines
	e.history = state.History
	e.mu.Unlock()

	e.Logger.Info("day rolled over", "from", prev, "to", now)
	_ = e.persist(ctx)
	return true
}

// =============================================================================
// CHECKLIST
// =============================================================================

// Toggle flips routine i. The local edit stands even when the save fails;
// the returned error only reports the failed save.
func (e *Engine) Toggle(ctx context.Context, i int) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.routines) {
		e.mu.Unlock()
		return fmt.Errorf("%w: no routine at position %d", habit.ErrInvalidInput, i+1)
	}
	e.routines = habit.ToggleRoutine(e.routines, i)
	e.mu.Unlock()
	return e.persist(ctx)
}

// ToggleByName flips the routine with the given name.
func (e *Engine) ToggleByName(ctx context.Context, name string) (habit.Routine, error) {
	e.mu.RLock()
	i := habit.IndexOf(e.routines, name)
	e.mu.RUnlock()
	if i < 0 {
		return habit.Routine{}, fmt.Errorf("%w: no routine named %q", habit.ErrInvalidInput, strings.TrimSpace(name))
	}
	err := e.Toggle(ctx, i)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if i >= len(e.routines) {
		return habit.Routine{}, err
	}
	return e.routines[i], err
}

// Add appends a custom routine. Blank and duplicate names are rejected
// without a save.
func (e *Engine) Add(ctx context.Context, name string) error {
	e.mu.Lock()
	list, err := habit.AddRoutine(e.routines, name)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.routines = list
	e.mu.Unlock()
	return e.persist(ctx)
}

// Delete removes custom routine i. Default routines are rejected.
func (e *Engine) Delete(ctx context.Context, i int) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.routines) {
		e.mu.Unlock()
		return fmt.Errorf("%w: no routine at position %d", habit.ErrInvalidInput, i+1)
	}
	list, err := habit.DeleteRoutine(e.routines, i)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.routines = list
	e.mu.Unlock()
	return e.persist(ctx)
}

func (e *Engine) persist(ctx context.Context) error {
	e.mu.RLock()
	snap := habit.Snapshot{
		CurrentDate: e.today,
		Today:       habit.CloneRoutines(e.routines),
		History:     e.history.Clone(),
	}
	e.mu.RUnlock()

	if _, err := e.API.SaveSnapshot(ctx, snap); err != nil {
		e.Logger.Warn("save failed", "err", err)
		return err
	}
	return nil
}

// =============================================================================
// JOURNAL + RULES
// =============================================================================

// SaveLog stores the journal entry for date. Blank text is not sent.
func (e *Engine) SaveLog(ctx context.Context, date habit.Date, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	ticket := e.seq.Begin(resourceLogs)
	doc, err := e.API.SaveLog(ctx, date, text)
	if err != nil {
		e.Logger.Warn("log save failed", "date", date, "err", err)
		return err
	}
	if doc == nil || !e.seq.Apply(resourceLogs, ticket) {
		return nil
	}
	e.mu.Lock()
	e.logs = cloneLogs(doc.Logs)
	e.mu.Unlock()
	return nil
}

// AddRule appends a rule and returns the list as stored.
// Blank text is not sent and returns nil.
func (e *Engine) AddRule(ctx context.Context, text string) ([]habit.Rule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	ticket := e.seq.Begin(resourceRules)
	rules, err := e.API.AddRule(ctx, text)
	if err != nil {
		e.Logger.Warn("add rule failed", "err", err)
		return nil, err
	}
	if rules == nil {
		return nil, nil
	}
	if e.seq.Apply(resourceRules, ticket) {
		e.mu.Lock()
		e.rules = append([]habit.Rule{}, rules...)
		e.mu.Unlock()
	}
	return rules, nil
}

// =============================================================================
// ACCESSORS - all return copies
// =============================================================================

func (e *Engine) Today() habit.Date {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.today
}

func (e *Engine) Routines() []habit.Routine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return habit.CloneRoutines(e.routines)
}

func (e *Engine) History() habit.History {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Clone()
}

func (e *Engine) Logs() map[habit.Date]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneLogs(e.logs)
}

func (e *Engine) Rules() []habit.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]habit.Rule{}, e.rules...)
}

// Offline reports whether the last Load fell back because the fetch failed.
func (e *Engine) Offline() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.offline
}

// Percent is today's completion percentage.
func (e *Engine) Percent() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return habit.CompletionPercent(e.routines)
}

// CompletedCount is the number of routines done today.
func (e *Engine) CompletedCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return habit.CompletedCount(e.routines)
}

// Streak counts fully completed days ending today.
func (e *Engine) Streak() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return habit.Streak(e.history, e.routines, e.today)
}

// Document assembles the in-memory state as a document.
func (e *Engine) Document() *habit.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	doc := &habit.Document{
		CurrentDate: e.today,
		Today:       habit.CloneRoutines(e.routines),
		History:     e.history.Clone(),
		Logs:        cloneLogs(e.logs),
		Rules:       append([]habit.Rule{}, e.rules...),
	}
	doc.Normalize()
	return doc
}

// Days is the progress dashboard's input: history plus today, ascending.
func (e *Engine) Days() []habit.DayRecord {
	return habit.AllDays(e.Document())
}

func cloneLogs(in map[habit.Date]string) map[habit.Date]string {
	out := make(map[habit.Date]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
