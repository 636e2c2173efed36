package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Date checks a day/month/year triple against the current day.
// Checks run in precedence order and only the first failure is reported:
// completeness, then numeric format, then calendar range, then the window
// [today, today+1 year].
func Date(day, month, year string, today time.Time) types.ErrorCode {
	day, month, year = strings.TrimSpace(day), strings.TrimSpace(month), strings.TrimSpace(year)

	if code := missingParts(day == "", month == "", year == ""); !code.OK() {
		return code
	}

	if !isDigits(day) || !isDigits(month) || !isDigits(year) {
		return types.CodeNotANumber
	}

	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)

	if d < 1 || d > 31 {
		return types.CodeInvalidDay
	}
	if m < 1 || m > 12 {
		return types.CodeInvalidMonth
	}
	if len(year) != 4 {
		return types.CodeInvalidYear
	}
	if d > daysIn(time.Month(m), y) {
		return types.CodeInvalidDay
	}

	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, today.Location())
	start := startOfDay(today)
	if date.Before(start) {
		return types.CodeInThePast
	}
	if date.After(start.AddDate(1, 0, 0)) {
		return types.CodeBeyondOneYear
	}
	return types.CodeNone
}

// ParseDate returns the calendar date of a triple that Date accepted.
func ParseDate(day, month, year string, loc *time.Location) (time.Time, bool) {
	d, errD := strconv.Atoi(strings.TrimSpace(day))
	m, errM := strconv.Atoi(strings.TrimSpace(month))
	y, errY := strconv.Atoi(strings.TrimSpace(year))
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > daysIn(time.Month(m), y) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

// missingParts maps the empty parts of a date to the matching code.
func missingParts(noDay, noMonth, noYear bool) types.ErrorCode {
	switch {
	case noDay && noMonth && noYear:
		return types.CodeMissingDate
	case noDay && noMonth:
		return types.CodeMissingDayAndMonth
	case noDay && noYear:
		return types.CodeMissingDayAndYear
	case noMonth && noYear:
		return types.CodeMissingMonthAndYear
	case noDay:
		return types.CodeMissingDay
	case noMonth:
		return types.CodeMissingMonth
	case noYear:
		return types.CodeMissingYear
	}
	return types.CodeNone
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
