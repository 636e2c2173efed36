package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

var today = time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)

func TestDate(t *testing.T) {
	tests := []struct {
		name              string
		day, month, year  string
		want              types.ErrorCode
	}{
		{"all parts missing", "", "", "", types.CodeMissingDate},
		{"blank parts count as missing", " ", "\t", "", types.CodeMissingDate},
		{"day and month missing beats single missing", "", "", "2027", types.CodeMissingDayAndMonth},
		{"day and year missing", "", "3", "", types.CodeMissingDayAndYear},
		{"month and year missing", "3", "", "", types.CodeMissingMonthAndYear},
		{"day missing", "", "3", "2027", types.CodeMissingDay},
		{"month missing", "3", "", "2027", types.CodeMissingMonth},
		{"year missing", "3", "3", "", types.CodeMissingYear},
		{"missing beats not a number", "x", "", "2027", types.CodeMissingMonth},
		{"day not a number", "1a", "3", "2027", types.CodeNotANumber},
		{"month not a number", "1", "-3", "2027", types.CodeNotANumber},
		{"year not a number", "1", "3", "20.7", types.CodeNotANumber},
		{"not a number beats invalid", "99", "3", "abcd", types.CodeNotANumber},
		{"day zero", "0", "3", "2027", types.CodeInvalidDay},
		{"day above 31", "32", "3", "2027", types.CodeInvalidDay},
		{"month zero", "1", "0", "2027", types.CodeInvalidMonth},
		{"month above 12", "1", "13", "2027", types.CodeInvalidMonth},
		{"invalid day beats invalid month", "40", "13", "2027", types.CodeInvalidDay},
		{"two digit year", "1", "3", "27", types.CodeInvalidYear},
		{"31 February is not a real date", "31", "2", "2027", types.CodeInvalidDay},
		{"29 February in a non leap year", "29", "2", "2027", types.CodeInvalidDay},
		{"yesterday", "18", "10", "2026", types.CodeInThePast},
		{"today is valid", "19", "10", "2026", types.CodeNone},
		{"leading zeros accepted", "01", "03", "2027", types.CodeNone},
		{"exactly one year ahead is valid", "19", "10", "2027", types.CodeNone},
		{"one year and a day ahead", "20", "10", "2027", types.CodeBeyondOneYear},
		{"far future", "1", "1", "2099", types.CodeBeyondOneYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.day, tt.month, tt.year, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2", "1", "2027", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("30", "2", "2027", time.UTC)
	assert.False(t, ok)

	_, ok = ParseDate("x", "2", "2027", time.UTC)
	assert.False(t, ok)
}
