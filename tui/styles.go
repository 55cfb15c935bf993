package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// ─── Colors (zinc + green) ───────────────────────────────────────────────────

var (
	colorPanel   = lipgloss.Color("#27272a") // zinc-800, unrecorded day
	colorMissed  = lipgloss.Color("#3f3f46") // zinc-700, tracked but not done
	colorBorder  = lipgloss.Color("#52525b") // zinc-600
	colorSubtext = lipgloss.Color("#a1a1aa") // zinc-400
	colorText    = lipgloss.Color("#f4f4f5") // zinc-100
	colorGreen   = lipgloss.Color("#22c55e") // green-500
	colorDone    = lipgloss.Color("#16a34a") // green-600
	colorAccent  = lipgloss.Color("#4ade80") // green-400
	colorRed     = lipgloss.Color("#f87171")
	colorOrange  = lipgloss.Color("#fb923c")
)

// ─── Layout Styles ───────────────────────────────────────────────────────────

var (
	appStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	taglineStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorPanel).
			Bold(true).
			Padding(0, 1)
)

// ─── Today Styles ────────────────────────────────────────────────────────────

var (
	streakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorOrange)

	routineStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	routineSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				PaddingLeft(1)

	routineDoneStyle = lipgloss.NewStyle().
				Foreground(colorSubtext).
				Strikethrough(true)

	customBadgeStyle = lipgloss.NewStyle().
				Foreground(colorSubtext).
				Italic(true)

	barFullStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorPanel)
)

// ─── Log Styles ──────────────────────────────────────────────────────────────

var (
	timelineDotStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	timelineDateStyle = lipgloss.NewStyle().
				Foreground(colorSubtext).
				Bold(true)

	timelineTextStyle = lipgloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(2)

	savedStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Italic(true)

	ruleCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPanel).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Italic(true).
			PaddingLeft(2)
)

// ─── Progress Styles ─────────────────────────────────────────────────────────

var (
	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center)

	selectedCellStyle = lipgloss.NewStyle().
				Underline(true).
				Bold(true)

	graphBarStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// heatColor is the Custom Tasks cell color for a completion percent:
// rgb(34, 100+1.55p, 100+0.5p), rounded half up.
func heatColor(percent int) lipgloss.Color {
	g := int(math.Floor(100 + float64(percent)*1.55 + 0.5))
	b := int(math.Floor(100 + float64(percent)*0.5 + 0.5))
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", 34, g, b))
}
