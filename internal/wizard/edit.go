package wizard

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// dateSeparator joins date parts in the original of a date step.
const dateSeparator = "/"

// Original returns the value a change link records for step, so a later
// submission can tell whether the answer moved.
func Original(step Step, a types.Answers) string {
	if step.Date != nil {
		d, m, y := a.Date(*step.Date)
		return strings.Join([]string{d, m, y}, dateSeparator)
	}
	if len(step.Fields) == 0 {
		return ""
	}
	return a.Get(step.Fields[0])
}

// ChangeLink returns the URL that reopens step in edit mode.
func ChangeLink(step Step, a types.Answers) string {
	return a.Carried().
		With(types.FieldIsEdit, "true").
		With(types.FieldOriginal, Original(step, a)).
		URL(step.Path)
}

// Changed reports whether the answers for step differ from original.
// Dates compare part by part, so "07/3/2027" and "7/03/2027" are equal.
func Changed(step Step, original string, a types.Answers) bool {
	if step.Date == nil {
		return original != Original(step, a)
	}
	parts := strings.Split(original, dateSeparator)
	if len(parts) != 3 {
		return true
	}
	d, m, y := a.Date(*step.Date)
	for i, v := range []string{d, m, y} {
		if !samePart(parts[i], v) {
			return true
		}
	}
	return false
}

func samePart(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x == y
	}
	return a == b
}
