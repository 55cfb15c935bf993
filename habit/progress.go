/*
progress.go - Progress dashboard aggregation

PURPOSE:
  Flattens history plus the current day into day records, buckets them by
  month and computes, for one selected task, per-day completion and a
  monthly completion rate.

TASKS:
  A default task is judged per day by its own routine entry. The synthetic
  "Custom Tasks" task aggregates every non-default routine of the day into
  a percentage; the day counts as done only when all of them are done.

MONTHLY RATE:
  rate = round(done days / present days * 100)
  where a day is "present" when the task appears in that day's list (for
  Custom Tasks: when the day has at least one custom routine). Months with
  no present day are omitted.

SEE ALSO:
  - streak.go: Percent rounding
  - tui/view.go: Calendar heat map and graph rendering
*/
package habit

import (
	"sort"
)

// DayRecord is one calendar day's routine list.
type DayRecord struct {
	Date     Date      `json:"date"`
	Routines []Routine `json:"routines"`
}

// AllDays merges history with the current day into records sorted ascending.
// The current day is included only when its list is non-empty.
func AllDays(doc *Document) []DayRecord {
	if doc == nil {
		return nil
	}
	days := make([]DayRecord, 0, len(doc.History)+1)
	for d, list := range doc.History {
		if d == doc.CurrentDate {
			continue
		}
		days = append(days, DayRecord{Date: d, Routines: CloneRoutines(list)})
	}
	if doc.CurrentDate != "" && len(doc.Today) > 0 {
		days = append(days, DayRecord{Date: doc.CurrentDate, Routines: CloneRoutines(doc.Today)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// GroupByMonth buckets ascending day records by "YYYY-MM"; order within a month is kept.
func GroupByMonth(days []DayRecord) map[Month][]DayRecord {
	grouped := make(map[Month][]DayRecord)
	for _, d := range days {
		m := d.Date.Month()
		grouped[m] = append(grouped[m], d)
	}
	return grouped
}

// Months returns the months that have data, newest first.
func Months(days []DayRecord) []Month {
	seen := make(map[Month]bool)
	var months []Month
	for _, d := range days {
		m := d.Date.Month()
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i] > months[j] })
	return months
}

// FindDay returns the routines recorded for date, nil when none.
func FindDay(days []DayRecord, date Date) []Routine {
	for _, d := range days {
		if d.Date == date {
			return d.Routines
		}
	}
	return nil
}

// =============================================================================
// PER-TASK DAYS
// =============================================================================

// TaskDay is one day's outcome for the selected task.
type TaskDay struct {
	Date      Date `json:"date"`
	Present   bool `json:"present"`
	Completed bool `json:"completed"`
	// CompletionPercent is only meaningful for Custom Tasks.
	CompletionPercent int `json:"completionPercent"`
}

// EvaluateTask judges one day's routines for task.
func EvaluateTask(date Date, routines []Routine, task string) TaskDay {
	day := TaskDay{Date: date}
	if task == CustomTasks {
		custom, done := 0, 0
		for _, r := range routines {
			if r.IsDefault {
				continue
			}
			custom++
			if r.Completed {
				done++
			}
		}
		if custom == 0 {
			return day
		}
		day.Present = true
		day.CompletionPercent = Percent(done, custom)
		day.Completed = done == custom
		return day
	}

	if i := IndexOf(routines, task); i >= 0 {
		day.Present = true
		day.Completed = routines[i].Completed
		if day.Completed {
			day.CompletionPercent = 100
		}
	}
	return day
}

// TaskDays evaluates task for every recorded day of month, ascending.
func TaskDays(days []DayRecord, task string, month Month) []TaskDay {
	var out []TaskDay
	for _, d := range days {
		if d.Date.Month() != month {
			continue
		}
		out = append(out, EvaluateTask(d.Date, d.Routines, task))
	}
	return out
}

// =============================================================================
// MONTHLY RATE
// =============================================================================

// MonthlyRate is one point of the completion trend graph.
type MonthlyRate struct {
	Month          Month `json:"month"`
	TrackedDays    int   `json:"trackedDays"`
	CompletedDays  int   `json:"completedDays"`
	CompletionRate int   `json:"completionRate"`
}

// MonthlyRates computes the trend for task, months ascending.
func MonthlyRates(days []DayRecord, task string) []MonthlyRate {
	grouped := GroupByMonth(days)
	var out []MonthlyRate
	for month, records := range grouped {
		rate := MonthlyRate{Month: month}
		for _, d := range records {
			td := EvaluateTask(d.Date, d.Routines, task)
			if !td.Present {
				continue
			}
			rate.TrackedDays++
			if td.Completed {
				rate.CompletedDays++
			}
		}
		if rate.TrackedDays == 0 {
			continue
		}
		rate.CompletionRate = Percent(rate.CompletedDays, rate.TrackedDays)
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// =============================================================================
// DAY DETAILS + CALENDAR
// =============================================================================

// DayDetails summarises one day for the detail panel.
type DayDetails struct {
	Date             Date `json:"date"`
	DefaultCompleted int  `json:"defaultCompleted"`
	DefaultTotal     int  `json:"defaultTotal"`
	CustomCompleted  int  `json:"customCompleted"`
	CustomTotal      int  `json:"customTotal"`
	Percent          int  `json:"percent"`
}

// Details computes the detail panel for date. DefaultTotal is the template size.
func Details(date Date, routines []Routine) DayDetails {
	dd := DayDetails{Date: date, DefaultTotal: DefaultCount()}
	for _, r := range routines {
		if r.IsDefault {
			if r.Completed {
				dd.DefaultCompleted++
			}
			continue
		}
		dd.CustomTotal++
		if r.Completed {
			dd.CustomCompleted++
		}
	}
	dd.Percent = CompletionPercent(routines)
	return dd
}

// CalendarCell is one square of the month grid. Blank cells pad the first week.
type CalendarCell struct {
	Blank bool
	Day   int
	TaskDay
	// Recorded is false for days with no data at all.
	Recorded bool
}

// CalendarGrid lays out month Monday-first with task outcomes on recorded days.
func CalendarGrid(month Month, entries []TaskDay) []CalendarCell {
	byDate := make(map[Date]TaskDay, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}
	var cells []CalendarCell
	for i := 0; i < month.WeekdayOffset(); i++ {
		cells = append(cells, CalendarCell{Blank: true})
	}
	for n := 1; n <= month.Days(); n++ {
		date := month.Date(n)
		cell := CalendarCell{Day: n, TaskDay: TaskDay{Date: date}}
		if e, ok := byDate[date]; ok {
			cell.TaskDay = e
			cell.Recorded = true
		}
		cells = append(cells, cell)
	}
	return cells
}
