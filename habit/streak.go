package habit

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent returns round(num/den*100), halves away from zero; 0 when den is 0.
func Percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(num)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(den))).
		Round(0).
		IntPart())
}

// CompletionPercent is the share of completed routines in list.
func CompletionPercent(list []Routine) int {
	return Percent(CompletedCount(list), len(list))
}

// CompletedCount counts completed entries.
func CompletedCount(list []Routine) int {
	n := 0
	for _, r := range list {
		if r.Completed {
			n++
		}
	}
	return n
}

// Streak counts consecutive fully completed days ending at today.
//
// Today is judged on the in-memory list, earlier days on history. The first
// day that is missing, empty or has an incomplete entry stops the count,
// today included: the streak reads 0 until today's list is finished.
func Streak(history History, todayList []Routine, today Date) int {
	if !AllCompleted(todayList) {
		return 0
	}
	if !today.Valid() {
		return 1
	}
	streak := 1
	for day := today.AddDays(-1); ; day = day.AddDays(-1) {
		if !AllCompleted(history[day]) {
			return streak
		}
		streak++
	}
}
