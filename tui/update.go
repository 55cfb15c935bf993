package tui

import (
	"context"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/monkmode/monkmode/client"
	"github.com/monkmode/monkmode/habit"
)

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if w := msg.Width - 8; w > 20 && w < 100 {
			m.Editor.SetWidth(w)
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Focused inputs take every other key
		switch {
		case m.AddInput.Focused():
			return m.handleAddInputKeys(msg)
		case m.RuleInput.Focused():
			return m.handleRuleInputKeys(msg)
		case m.Editor.Focused():
			return m.handleEditorKeys(msg)
		}
		return m.handleKeyPress(msg.String())

	// ─── Engine results ──────────────────────────────────────────────────
	case loadedMsg:
		m.Loaded = true
		m.resetDay()
		return m, nil

	case RolloverMsg:
		m.resetDay()
		return m, nil

	case mutationMsg:
		if msg.err != nil && habit.IsClientError(msg.err) {
			m.ErrorMsg = msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case logTickMsg:
		text, ok := msg.draft.Due(msg.gen)
		if !ok {
			return m, nil
		}
		return m, saveLog(m.engine, msg.draft, msg.date, text, msg.gen)

	case logSavedMsg:
		if msg.err == nil {
			msg.draft.MarkSaved(msg.gen)
		}
		return m, nil

	case ruleAddedMsg:
		if msg.err != nil {
			if habit.IsClientError(msg.err) {
				m.ErrorMsg = msg.err.Error()
			}
			return m, nil
		}
		m.RuleInput.Reset()
		return m, nil
	}

	return m, nil
}

// resetDay points the per-day widgets at the engine's current date.
func (m *Model) resetDay() {
	today := m.engine.Today()
	text := m.engine.Logs()[today]
	m.Draft = client.NewLogDraft(text)
	m.Editor.SetValue(text)
	m.SelectedDate = today
	m.MonthIndex = 0
	m.Expanded = ""
	m.TimelineCursor = 0
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.engine.Routines())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// ─── Key Press Router ────────────────────────────────────────────────────────

func (m Model) handleKeyPress(key string) (tea.Model, tea.Cmd) {
	// Clear error on any keypress
	m.ErrorMsg = ""

	switch key {
	case "q":
		return m, tea.Quit
	case "1":
		m.Screen = ScreenToday
		return m, nil
	case "2":
		m.Screen = ScreenLog
		return m, nil
	case "3":
		m.Screen = ScreenProgress
		return m, nil
	}

	switch m.Screen {
	case ScreenToday:
		return m.handleTodayKeys(key)
	case ScreenLog:
		if m.LogMode == LogRules {
			return m.handleRulesKeys(key)
		}
		return m.handleDailyKeys(key)
	case ScreenProgress:
		return m.handleProgressKeys(key)
	}
	return m, nil
}

// ─── Today ───────────────────────────────────────────────────────────────────

func (m Model) handleTodayKeys(key string) (tea.Model, tea.Cmd) {
	routines := m.engine.Routines()

	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(routines)-1 {
			m.Cursor++
		}
	case " ", "enter", "x":
		i := m.Cursor
		return m, mutate(func(ctx context.Context) error {
			return m.engine.Toggle(ctx, i)
		})
	case "a":
		m.AddInput.Reset()
		cmd := m.AddInput.Focus()
		return m, cmd
	case "d":
		if m.Cursor >= len(routines) || routines[m.Cursor].IsDefault {
			return m, nil
		}
		i := m.Cursor
		return m, mutate(func(ctx context.Context) error {
			return m.engine.Delete(ctx, i)
		})
	}
	return m, nil
}

func (m Model) handleAddInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.AddInput.Value()
		m.AddInput.Blur()
		m.AddInput.Reset()
		return m, mutate(func(ctx context.Context) error {
			return m.engine.Add(ctx, name)
		})
	case "esc":
		m.AddInput.Blur()
		m.AddInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.AddInput, cmd = m.AddInput.Update(msg)
	return m, cmd
}

// ─── Log: daily ──────────────────────────────────────────────────────────────

func (m Model) handleDailyKeys(key string) (tea.Model, tea.Cmd) {
	entries := pastEntries(m.engine.Logs(), m.engine.Today())

	switch key {
	case "tab", "r":
		m.LogMode = LogRules
	case "e", "i":
		cmd := m.Editor.Focus()
		return m, cmd
	case "up", "k":
		if m.TimelineCursor > 0 {
			m.TimelineCursor--
		}
	case "down", "j":
		if m.TimelineCursor < len(entries)-1 {
			m.TimelineCursor++
		}
	case "enter", " ":
		if m.TimelineCursor >= len(entries) {
			return m, nil
		}
		date := entries[m.TimelineCursor].Date
		if m.Expanded == date {
			m.Expanded = ""
		} else {
			m.Expanded = date
		}
	}
	return m, nil
}

// handleEditorKeys forwards keys to the journal editor and arms a save
// timer for every change. Only the newest timer finds its edit due.
func (m Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.Editor.Blur()
		return m, nil
	}

	before := m.Editor.Value()
	var cmd tea.Cmd
	m.Editor, cmd = m.Editor.Update(msg)
	after := m.Editor.Value()
	if after == before {
		return m, cmd
	}

	gen := m.Draft.Edit(after)
	return m, tea.Batch(cmd, armLogTimer(m.debounce, m.Draft, m.engine.Today(), gen))
}

// ─── Log: rules ──────────────────────────────────────────────────────────────

func (m Model) handleRulesKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "d":
		m.LogMode = LogDaily
	case "a", "i":
		cmd := m.RuleInput.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRuleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.RuleInput.Value()
		m.RuleInput.Blur()
		return m, addRule(m.engine, text)
	case "esc":
		m.RuleInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.RuleInput, cmd = m.RuleInput.Update(msg)
	return m, cmd
}

// ─── Progress ────────────────────────────────────────────────────────────────

func (m Model) handleProgressKeys(key string) (tea.Model, tea.Cmd) {
	months := habit.Months(m.engine.Days())
	tasks := habit.TaskOptions()

	switch key {
	case "tab", "v":
		if m.ProgressMode == ProgressCalendar {
			m.ProgressMode = ProgressGraph
		} else {
			m.ProgressMode = ProgressCalendar
		}
	case "t":
		m.TaskIndex = (m.TaskIndex + 1) % len(tasks)
	case "T":
		m.TaskIndex = (m.TaskIndex + len(tasks) - 1) % len(tasks)
	// Months are newest first: right walks back in time.
	case "right", "l":
		if m.MonthIndex < len(months)-1 {
			m.MonthIndex++
		}
	case "left", "h":
		if m.MonthIndex > 0 {
			m.MonthIndex--
		}
	case "down", "j":
		m.selectDate(m.SelectedDate.AddDays(1), months)
	case "up", "k":
		m.selectDate(m.SelectedDate.AddDays(-1), months)
	}
	return m, nil
}

// selectDate moves the selection and follows it to its month when that
// month has data.
func (m *Model) selectDate(date habit.Date, months []habit.Month) {
	if !date.Valid() {
		return
	}
	m.SelectedDate = date
	for i, month := range months {
		if month == date.Month() {
			m.MonthIndex = i
			return
		}
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type logEntry struct {
	Date habit.Date
	Text string
}

// pastEntries lists every journal entry except today's, newest first.
func pastEntries(logs map[habit.Date]string, today habit.Date) []logEntry {
	var out []logEntry
	for date, text := range logs {
		if date == today {
			continue
		}
		out = append(out, logEntry{Date: date, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
