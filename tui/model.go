// Package tui implements the Bubbletea terminal UI for MonkMode.
//
// Three views over one client.Engine:
// - Today: streak, progress bar and the routine checklist
// - Log: today's journal (debounced autosave), past entries, rules
// - Progress: per-task calendar heat map or monthly trend graph
//
// All state lives in a single Model. Engine calls run inside tea.Cmds
// and report back through messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// ─── Screens ─────────────────────────────────────────────────────────────────

type Screen int

const (
	ScreenToday Screen = iota
	ScreenLog
	ScreenProgress
)

// LogMode switches the Log screen between the journal and the rules.
type LogMode int

const (
	LogDaily LogMode = iota
	LogRules
)

// ProgressMode switches the Progress screen between its two charts.
type ProgressMode int

const (
	ProgressCalendar ProgressMode = iota
	ProgressGraph
)

// opTimeout bounds every engine call made from the UI.
const opTimeout = 10 * time.Second

// ─── Custom Messages ─────────────────────────────────────────────────────────

type loadedMsg struct {
	state habit.DayState
}

type mutationMsg struct {
	err error
}

type logTickMsg struct {
	draft *client.LogDraft
	date  habit.Date
	gen   uint64
}

type logSavedMsg struct {
	draft *client.LogDraft
	gen   uint64
	err   error
}

type ruleAddedMsg struct {
	err error
}

// RolloverMsg tells the UI the engine moved to a new day.
// Send it from a client.RolloverWatcher callback.
type RolloverMsg struct{}

// ─── Model ───────────────────────────────────────────────────────────────────

type Model struct {
	engine   *client.Engine
	debounce time.Duration
	renderer *glamour.TermRenderer

	Screen   Screen
	Width    int
	Height   int
	Loaded   bool
	ErrorMsg string

	// Today
	Cursor   int
	AddInput textinput.Model

	// Log
	LogMode        LogMode
	Editor         textarea.Model
	Draft          *client.LogDraft
	TimelineCursor int
	Expanded       habit.Date
	RuleInput      textinput.Model

	// Progress
	ProgressMode ProgressMode
	TaskIndex    int
	MonthIndex   int
	SelectedDate habit.Date
}

// New creates a TUI model over engine. A zero debounce means
// client.DefaultDebounce.
func New(engine *client.Engine, debounce time.Duration) Model {
	if debounce <= 0 {
		debounce = client.DefaultDebounce
	}

	add := textinput.New()
	add.Placeholder = "Add custom routine..."
	add.CharLimit = 80
	add.Width = 40

	rule := textinput.New()
	rule.Placeholder = "Write a rule or lesson..."
	rule.CharLimit = 500
	rule.Width = 60

	editor := textarea.New()
	editor.Placeholder = "Write about your day..."
	editor.ShowLineNumbers = false
	editor.SetWidth(72)
	editor.SetHeight(8)
	editor.CharLimit = 0

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)

	return Model{
		engine:    engine,
		debounce:  debounce,
		renderer:  renderer,
		Screen:    ScreenToday,
		AddInput:  add,
		RuleInput: rule,
		Editor:    editor,
		Draft:     client.NewLogDraft(""),
	}
}

// Init loads the document.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadEngine(m.engine),
		tea.EnterAltScreen,
	)
}

// ─── Commands ────────────────────────────────────────────────────────────────

func loadEngine(e *client.Engine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return loadedMsg{state: e.Load(ctx)}
	}
}

func mutate(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return mutationMsg{err: op(ctx)}
	}
}

// armLogTimer fires once after d. The draft and date are captured so a
// timer that outlives a rollover still saves under the day it was typed.
func armLogTimer(d time.Duration, draft *client.LogDraft, date habit.Date, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return logTickMsg{draft: draft, date: date, gen: gen}
	})
}

func saveLog(e *client.Engine, draft *client.LogDraft, date habit.Date, text string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return logSavedMsg{draft: draft, gen: gen, err: e.SaveLog(ctx, date, text)}
	}
}

func addRule(e *client.Engine, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := e.AddRule(ctx, text)
		return ruleAddedMsg{err: err}
	}
}
