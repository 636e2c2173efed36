package present

import (
	"time"

	"github.com/mesh-intelligence/tradecheck/internal/validate"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Row is one line of a check-your-answers page. Label and ValueKey are
// locale keys; Value is shown as is when ValueKey is empty.
type Row struct {
	Label    string
	Value    string
	ValueKey string
	Date     time.Time
	Change   string
}

// CheckAnswers builds the rows for every answered step of flow, then one
// row per additional question.
func CheckAnswers(flow *wizard.Flow, a types.Answers, questions []Question, countryName func(string) string) []Row {
	var rows []Row
	for _, step := range flow.Steps {
		row := Row{
			Label:  "cya." + step.Fields[0],
			Change: wizard.ChangeLink(step, a),
		}
		switch {
		case step.Date != nil:
			d, m, y := a.Date(*step.Date)
			t, ok := validate.ParseDate(d, m, y, time.UTC)
			if !ok {
				continue
			}
			row.Label = "cya.date"
			row.Date = t
		default:
			field := step.Fields[0]
			value := a.Get(field)
			if value == "" {
				continue
			}
			switch field {
			case types.FieldOriginCountry, types.FieldDestinationCountry:
				row.Value = value
				if countryName != nil {
					row.Value = countryName(value)
				}
			case types.FieldCommodity:
				row.Value = value
			case types.FieldAdditionalCode:
				if value == types.AdditionalCodeNone {
					row.ValueKey = "option.additionalCode.none"
				} else {
					row.Value = value
				}
			default:
				row.ValueKey = "option." + field + "." + value
			}
		}
		rows = append(rows, row)
	}

	for _, q := range questions {
		if !q.Answered() {
			continue
		}
		change := a.Carried().Without(q.Field).
			With(types.FieldIsEdit, "true").
			With(types.FieldOriginal, q.Answer).
			URL(flow.AdditionalQuestions)
		rows = append(rows, Row{
			Label:    "question." + q.ID + ".summary",
			ValueKey: "option.question." + q.Answer,
			Change:   change,
		})
	}
	return rows
}
