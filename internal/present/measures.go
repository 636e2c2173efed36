package present

import (
	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// MeasureRow is one regulatory requirement shown on the summary pages.
type MeasureRow struct {
	ID          string
	Kind        string
	Title       string
	Description string
	// Depth is 0 for top-level measures.
	Depth int
}

// MeasureRows flattens the applicable measures, children after parents.
func MeasureRows(ms *tariff.Measures, a types.Answers) []MeasureRow {
	if ms == nil {
		return nil
	}
	var rows []MeasureRow
	var walk func([]tariff.Measure, int)
	walk = func(list []tariff.Measure, depth int) {
		for _, m := range list {
			if !applies(m, a) {
				continue
			}
			rows = append(rows, MeasureRow{
				ID:          m.ID,
				Kind:        m.Kind,
				Title:       m.Title,
				Description: m.Description,
				Depth:       depth,
			})
			walk(m.Children, depth+1)
		}
	}
	walk(ms.Measures, 0)
	return rows
}
