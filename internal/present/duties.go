package present

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// DutySummary is the customs duty and VAT outcome of a trade.
type DutySummary struct {
	NoCustomsDuty bool
	NoImportVAT   bool
	// CalculatorURL is set when anything is payable.
	CalculatorURL string
}

// Calculators holds the two duty calculator locations.
type Calculators struct {
	Internal string
	XI       string
}

// Duties summarises upstream duty lines. A value that does not parse as a
// percentage counts as payable.
func Duties(d *tariff.Duties, a types.Answers, calc Calculators, isEU func(string) bool) DutySummary {
	var s DutySummary
	if d == nil {
		return s
	}
	s.NoCustomsDuty = allZero(d.Tariffs)
	s.NoImportVAT = allZero(d.Taxes)
	if !s.NoCustomsDuty || !s.NoImportVAT {
		s.CalculatorURL = calculatorURL(a, calc, isEU)
	}
	return s
}

func allZero(lines []tariff.DutyLine) bool {
	for _, l := range lines {
		if !isZeroRate(l.Value) {
			return false
		}
	}
	return true
}

func isZeroRate(value string) bool {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}

// calculatorURL picks the calculator for the trade. Goods entering
// Northern Ireland from Great Britain or a third country are priced by
// the Northern Ireland calculator.
func calculatorURL(a types.Answers, calc Calculators, isEU func(string) bool) string {
	origin := a.Get(types.FieldOriginCountry)
	dest := a.Get(types.FieldDestinationCountry)
	base := calc.Internal
	if dest == types.CountryXI && origin != types.CountryXI {
		if origin == types.CountryGB || isEU == nil || !isEU(origin) {
			base = calc.XI
		}
	}
	q := a.Pick(types.FieldCommodity, types.FieldOriginCountry, types.FieldDestinationCountry, types.FieldAdditionalCode)
	if q.Get(types.FieldAdditionalCode) == types.AdditionalCodeNone {
		q = q.Without(types.FieldAdditionalCode)
	}
	return q.URL(base)
}
