package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/monkmode/monkmode/habit"
)

// previewRunes is how much of a past entry the collapsed timeline shows.
const previewRunes = 120

// ─── View (main router) ─────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.Loaded {
		return appStyle.Render(titleStyle.Render("MonkMode") + "\n\n" + labelStyle.Render("Loading..."))
	}

	var content string
	switch m.Screen {
	case ScreenToday:
		content = m.viewToday()
	case ScreenLog:
		content = m.viewLog()
	case ScreenProgress:
		content = m.viewProgress()
	default:
		content = "Unknown screen"
	}

	content = m.viewTabs() + "\n\n" + content

	if m.engine.Offline() {
		content += "\n" + labelStyle.Render("offline: changes are kept on screen until the server is back")
	}
	if m.ErrorMsg != "" {
		content += "\n" + errorStyle.Render("Error: "+m.ErrorMsg)
	}

	return appStyle.Render(content)
}

func (m Model) viewTabs() string {
	tabs := []struct {
		screen Screen
		label  string
	}{
		{ScreenToday, "1 Today"},
		{ScreenLog, "2 Log"},
		{ScreenProgress, "3 Progress"},
	}
	var parts []string
	for _, t := range tabs {
		if t.screen == m.Screen {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// ─── Today ───────────────────────────────────────────────────────────────────

func (m Model) viewToday() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MonkMode") + "\n")
	b.WriteString(taglineStyle.Render("Discipline. Consistency. Progress.") + "\n")
	b.WriteString(labelStyle.Render(formatLongDate(m.engine.Today())) + "\n\n")

	routines := m.engine.Routines()
	streak := labelStyle.Render("Current Streak") + "\n" +
		streakStyle.Render(fmt.Sprintf("🔥 %d days", m.engine.Streak()))
	if !habit.AllCompleted(routines) {
		streak += "\n" + labelStyle.Render("counts once today is complete")
	}
	b.WriteString(cardStyle.Render(streak) + "\n")

	percent := m.engine.Percent()
	summary := labelStyle.Render("Today's Progress") + "\n" +
		valueStyle.Render(fmt.Sprintf("%d / %d completed - %d%%", m.engine.CompletedCount(), len(routines), percent)) + "\n" +
		progressBar(percent, 30)
	b.WriteString(cardStyle.Render(summary) + "\n")

	for i, r := range routines {
		box := "[ ]"
		if r.Completed {
			box = "[x]"
		}
		name := r.Name
		if r.Completed {
			name = routineDoneStyle.Render(name)
		}
		line := box + " " + name
		if !r.IsDefault {
			line += " " + customBadgeStyle.Render("(custom)")
		}
		if i == m.Cursor {
			b.WriteString(routineSelectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(routineStyle.Render(line) + "\n")
		}
	}

	if m.AddInput.Focused() {
		b.WriteString("\n" + m.AddInput.View() + "\n")
	}

	b.WriteString(helpStyle.Render("j/k navigate • space toggle • a add • d delete custom • 2 log • 3 progress • q quit"))
	return b.String()
}

// progressBar draws percent of width cells.
func progressBar(percent, width int) string {
	full := percent * width / 100
	if full > width {
		full = width
	}
	return barFullStyle.Render(strings.Repeat("█", full)) +
		barEmptyStyle.Render(strings.Repeat("█", width-full))
}

// ─── Log ─────────────────────────────────────────────────────────────────────

func (m Model) viewLog() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Daily Log") + "\n")
	b.WriteString(taglineStyle.Render("Reflect. Write. Reset.") + "\n")

	daily, rules := activeTabStyle, tabStyle
	if m.LogMode == LogRules {
		daily, rules = tabStyle, activeTabStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, daily.Render("Daily"), rules.Render("Rules")) + "\n\n")

	if m.LogMode == LogRules {
		b.WriteString(m.viewRules())
		b.WriteString(helpStyle.Render("a write rule • enter save • esc cancel • tab daily • q quit"))
		return b.String()
	}

	b.WriteString(m.viewJournal())
	b.WriteString(helpStyle.Render("e edit • esc stop editing • j/k entries • enter expand • tab rules • q quit"))
	return b.String()
}

func (m Model) viewJournal() string {
	var b strings.Builder

	status := "Saved ✓"
	if !m.Draft.Saved() {
		status = "Saving..."
	}
	b.WriteString(labelStyle.Render(formatLongDate(m.engine.Today())) + "  " + savedStyle.Render(status) + "\n")
	b.WriteString(m.Editor.View() + "\n\n")

	entries := pastEntries(m.engine.Logs(), m.engine.Today())
	if len(entries) == 0 {
		b.WriteString(emptyStyle.Render("No past entries yet.") + "\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("Past entries") + "\n")
	for i, e := range entries {
		marker := "  "
		if i == m.TimelineCursor && !m.Editor.Focused() {
			marker = "▸ "
		}
		b.WriteString(marker + timelineDotStyle.Render("●") + " " + timelineDateStyle.Render(formatLongDate(e.Date)) + "\n")
		if e.Date == m.Expanded {
			b.WriteString(m.renderMarkdown(e.Text) + "\n")
			continue
		}
		b.WriteString(timelineTextStyle.Render(preview(e.Text)) + "\n")
	}
	return b.String()
}

func (m Model) viewRules() string {
	var b strings.Builder

	rules := m.engine.Rules()
	if len(rules) == 0 {
		b.WriteString(emptyStyle.Render("No rules yet.") + "\n")
		b.WriteString(emptyStyle.Render("Add your first lesson below.") + "\n")
	}
	for _, r := range rules {
		card := r.Text + "\n" + labelStyle.Render(r.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
		b.WriteString(ruleCardStyle.Render(card) + "\n")
	}

	b.WriteString("\n" + m.RuleInput.View() + "\n")
	return b.String()
}

// renderMarkdown renders a full journal entry, falling back to plain text.
func (m Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return timelineTextStyle.Render(text)
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return timelineTextStyle.Render(text)
	}
	return strings.TrimRight(out, "\n")
}

// preview collapses an entry to its first previewRunes runes.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// formatLongDate renders "Sunday, March 10, 2024".
func formatLongDate(d habit.Date) string {
	t := d.Time()
	if t.IsZero() {
		return string(d)
	}
	return t.Format("Monday, January 2, 2006")
}

// ─── Progress ────────────────────────────────────────────────────────────────

func (m Model) viewProgress() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Progress") + "\n")
	task := habit.TaskOptions()[m.TaskIndex]
	b.WriteString(taglineStyle.Render("Task: "+task) + "\n")

	cal, graph := activeTabStyle, tabStyle
	if m.ProgressMode == ProgressGraph {
		cal, graph = tabStyle, activeTabStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cal.Render("Calendar"), graph.Render("Graph")) + "\n\n")

	days := m.engine.Days()
	if m.ProgressMode == ProgressGraph {
		b.WriteString(renderGraph(habit.MonthlyRates(days, task), 30))
	} else {
		b.WriteString(m.viewCalendar(days, task))
	}

	b.WriteString(helpStyle.Render("tab calendar/graph • t/T task • ←/→ month • j/k day • 1 today • q quit"))
	return b.String()
}

func (m Model) viewCalendar(days []habit.DayRecord, task string) string {
	months := habit.Months(days)
	if len(months) == 0 {
		return emptyStyle.Render("No history yet.") + "\n"
	}
	idx := m.MonthIndex
	if idx >= len(months) {
		idx = len(months) - 1
	}
	month := months[idx]

	var b strings.Builder
	b.WriteString(valueStyle.Render(month.Label()) + "\n")

	var header []string
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		header = append(header, cellStyle.Render(labelStyle.Render(wd[:2])))
	}
	b.WriteString(strings.Join(header, "") + "\n")

	cells := habit.CalendarGrid(month, habit.TaskDays(days, task, month))
	var row []string
	for i, c := range cells {
		row = append(row, renderCell(c, task, c.Date == m.SelectedDate))
		if (i+1)%7 == 0 || i == len(cells)-1 {
			b.WriteString(strings.Join(row, "") + "\n")
			row = nil
		}
	}

	b.WriteString("\n" + renderDetails(habit.Details(m.SelectedDate, habit.FindDay(days, m.SelectedDate))))
	return b.String()
}

// renderCell colors one day square for task.
func renderCell(c habit.CalendarCell, task string, selected bool) string {
	if c.Blank {
		return cellStyle.Render("")
	}
	style := cellStyle.Foreground(colorText).Background(cellColor(c, task))
	if selected {
		style = style.Inherit(selectedCellStyle).Foreground(colorAccent)
	}
	return style.Render(fmt.Sprintf("%2d", c.Day))
}

// cellColor maps a day's outcome to its heat-map color.
func cellColor(c habit.CalendarCell, task string) lipgloss.Color {
	if !c.Recorded {
		return colorPanel
	}
	if task == habit.CustomTasks {
		if !c.Present || c.CompletionPercent == 0 {
			return colorPanel
		}
		return heatColor(c.CompletionPercent)
	}
	switch {
	case !c.Present:
		return colorPanel
	case c.Completed:
		return colorDone
	default:
		return colorMissed
	}
}

func renderDetails(dd habit.DayDetails) string {
	date := string(dd.Date)
	if t := dd.Date.Time(); !t.IsZero() {
		date = t.Format("Mon, Jan 2 2006")
	}
	body := valueStyle.Render("📅 "+date) + "\n" +
		fmt.Sprintf("Default Tasks   %d / %d\n", dd.DefaultCompleted, dd.DefaultTotal) +
		fmt.Sprintf("Custom Tasks    %d / %d\n", dd.CustomCompleted, dd.CustomTotal) +
		fmt.Sprintf("Day Completion  %d%%", dd.Percent)
	return cardStyle.Render(body) + "\n"
}

// renderGraph draws the monthly trend as one bar per month, oldest first.
// A single month gets a zero "Start" baseline so there is a line to read.
func renderGraph(rates []habit.MonthlyRate, width int) string {
	if len(rates) == 0 {
		return emptyStyle.Render("No data for this task yet.") + "\n"
	}

	type point struct {
		label string
		rate  int
	}
	var points []point
	if len(rates) == 1 {
		points = append(points, point{label: "Start"})
	}
	for _, r := range rates {
		label := string(r.Month)
		if t, err := time.Parse("2006-01", string(r.Month)); err == nil {
			label = t.Format("Jan 06")
		}
		points = append(points, point{label: label, rate: r.CompletionRate})
	}

	var b strings.Builder
	for _, p := range points {
		bar := graphBarStyle.Render(strings.Repeat("█", p.rate*width/100))
		b.WriteString(fmt.Sprintf("%-6s │%s %d%%\n", p.label, bar, p.rate))
	}
	return b.String()
}
