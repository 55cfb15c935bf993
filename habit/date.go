package habit

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Local calendar day, "YYYY-MM-DD"
// =============================================================================

// Date is a local-calendar day. It is not a timezone-aware instant: two
// clients in different zones may legitimately disagree about "today".
type Date string

const dateLayout = "2006-01-02"

// DateOf returns the local calendar day of t.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the local calendar day of now.
func Today() Date { return DateOf(time.Now()) }

// ParseDate validates s as YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	if _, err := time.ParseInLocation(dateLayout, s, time.Local); err != nil {
		return "", fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return Date(s), nil
}

// MustDate panics on an invalid date. For literals and tests.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Valid reports whether d parses as a calendar date.
func (d Date) Valid() bool {
	_, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	return err == nil
}

// Time returns local midnight of d, or the zero time when d is invalid.
func (d Date) Time() time.Time {
	t, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays moves d by n calendar days (DST-safe: calendar arithmetic, not hours).
func (d Date) AddDays(n int) Date {
	t := d.Time()
	if t.IsZero() {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Month returns the "YYYY-MM" bucket of d.
func (d Date) Month() Month {
	if len(d) < 7 {
		return ""
	}
	return Month(d[:7])
}

// Day returns the day of month, 0 when invalid.
func (d Date) Day() int {
	t := d.Time()
	if t.IsZero() {
		return 0
	}
	return t.Day()
}

func (d Date) String() string { return string(d) }

// =============================================================================
// MONTH - "YYYY-MM" bucket
// =============================================================================

// Month is a calendar month key, "YYYY-MM".
type Month string

func (m Month) first() time.Time {
	t, err := time.ParseInLocation("2006-01", string(m), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Days returns the number of days in m, 0 when invalid.
func (m Month) Days() int {
	t := m.first()
	if t.IsZero() {
		return 0
	}
	return t.AddDate(0, 1, -1).Day()
}

// Date returns day n of m.
func (m Month) Date(n int) Date {
	return Date(fmt.Sprintf("%s-%02d", m, n))
}

// Label renders "January 2024".
func (m Month) Label() string {
	t := m.first()
	if t.IsZero() {
		return string(m)
	}
	return t.Format("January 2006")
}

// WeekdayOffset is the Monday-first column of day 1 (Mon=0 ... Sun=6).
func (m Month) WeekdayOffset() int {
	t := m.first()
	if t.IsZero() {
		return 0
	}
	return (int(t.Weekday()) + 6) % 7
}
