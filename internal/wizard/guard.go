package wizard

import (
	"strings"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Decision is the outcome of Guard. An empty Location means render.
type Decision struct {
	Location string
	Error    types.ErrorCode
}

// Render reports whether the page may render.
func (d Decision) Render() bool {
	return d.Location == ""
}

func redirect(path string, a types.Answers, code types.ErrorCode) Decision {
	a = a.Carried()
	if !code.OK() {
		a = a.With(types.FieldError, code.String())
	}
	return Decision{Location: a.URL(path), Error: code}
}

// Guard checks the preconditions of the page at path against a. The first
// failing step wins; the page renders only when every step upstream of it
// holds.
func Guard(path string, a types.Answers, env Env) Decision {
	switch path {
	case PathStart, PathTypeOfTrade, PathNorthernIrelandEU:
		return Decision{}
	}
	if !a.Has(types.FieldTradeType) {
		return redirect(PathTypeOfTrade, a, types.CodeNone)
	}
	flow, ok := FlowFor(a.TradeType())
	if !ok {
		return redirect(PathTypeOfTrade, a, types.CodeInvalid)
	}
	if !flow.Owns(path) {
		return redirect(PathTypeOfTrade, a, types.CodeNone)
	}

	limit, summary := flow.prerequisites(path)
	pairAt := flow.pairIndex()
	if limit > pairAt && flow.tradesAcrossIrishBorder(a, env) {
		return redirect(PathNorthernIrelandEU, a, types.CodeNone)
	}
	for i, s := range flow.Steps[:limit] {
		if s.Profile && !summary {
			continue
		}
		if code := s.Check(a, env); !code.OK() {
			return redirect(s.Path, a, code)
		}
		if i == pairAt {
			if loc, hit := flow.pairRule(a, env); hit {
				return redirect(loc, a, types.CodeNone)
			}
		}
	}
	return Decision{}
}

// prerequisites returns how many leading steps gate path and whether the
// profile steps count.
func (f *Flow) prerequisites(path string) (int, bool) {
	switch path {
	case PathSearch:
		return f.StepIndex(f.CommodityStep().Path), false
	case f.AdditionalQuestions:
		return len(f.Steps), false
	case f.CheckAnswers, f.Summary:
		return len(f.Steps), true
	}
	return f.StepIndex(path), false
}

// pairIndex is the step after which both countries are known.
func (f *Flow) pairIndex() int {
	return max(f.StepIndex(f.OriginStep().Path), f.StepIndex(f.DestinationStep().Path))
}

// pairRule applies the country-pair rules once both countries are present.
// A pair trading across the Northern Ireland / EU border leaves the
// questionnaire for the information page; a pair naming one country twice
// goes back to the destination question.
func (f *Flow) pairRule(a types.Answers, env Env) (string, bool) {
	origin, dest := countryPair(a)
	if origin == "" || dest == "" {
		return "", false
	}
	if origin == dest {
		return f.DestinationStep().Path, true
	}
	if f.tradesAcrossIrishBorder(a, env) {
		return PathNorthernIrelandEU, true
	}
	return "", false
}

// tradesAcrossIrishBorder reports a trade between Northern Ireland and the EU,
// which this service does not cover.
func (f *Flow) tradesAcrossIrishBorder(a types.Answers, env Env) bool {
	origin, dest := countryPair(a)
	switch f.TradeType {
	case types.TradeImport:
		return dest == types.CountryXI && env.isEU(origin)
	case types.TradeExport:
		return origin == types.CountryXI && env.isEU(dest)
	}
	return false
}

// countryPair returns the origin and destination codes trimmed and upper-cased.
func countryPair(a types.Answers) (origin, dest string) {
	origin = strings.ToUpper(strings.TrimSpace(a.Get(types.FieldOriginCountry)))
	dest = strings.ToUpper(strings.TrimSpace(a.Get(types.FieldDestinationCountry)))
	return origin, dest
}
