package present

import (
	"html/template"
	"regexp"
	"sort"
	"strings"

	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// hierarchySeparator joins the levels of a classification path.
const hierarchySeparator = " > "

// SearchRow is one search result ready to render.
type SearchRow struct {
	Code      string
	Kind      string
	Hierarchy template.HTML
	// Link drills into a heading or subheading, or selects a commodity.
	Link string
}

// Hierarchy renders a classification path: levels joined with " > ", the
// last level bold, and every case-insensitive occurrence of each term
// wrapped in <mark>. Everything else is HTML-escaped.
func Hierarchy(levels []string, terms []string) template.HTML {
	re := termPattern(terms)
	var b strings.Builder
	for i, level := range levels {
		if i > 0 {
			b.WriteString(template.HTMLEscapeString(hierarchySeparator))
		}
		last := i == len(levels)-1
		if last {
			b.WriteString("<b>")
		}
		b.WriteString(highlight(level, re))
		if last {
			b.WriteString("</b>")
		}
	}
	return template.HTML(b.String())
}

// SearchTerms splits a search box entry into the words to highlight.
func SearchTerms(entry string) []string {
	return strings.Fields(entry)
}

// termPattern matches any of terms, longest first so overlapping terms
// mark the longer one.
func termPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}

func highlight(text string, re *regexp.Regexp) string {
	if re == nil {
		return template.HTMLEscapeString(text)
	}
	var b strings.Builder
	prev := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		b.WriteString(template.HTMLEscapeString(text[prev:m[0]]))
		b.WriteString("<mark>")
		b.WriteString(template.HTMLEscapeString(text[m[0]:m[1]]))
		b.WriteString("</mark>")
		prev = m[1]
	}
	b.WriteString(template.HTMLEscapeString(text[prev:]))
	return b.String()
}

// SearchRows builds the result rows for one search step. Headings and
// subheadings link back to the search for their children; commodities
// link to the commodity question with the code filled in.
func SearchRows(res *tariff.SearchResult, flow *wizard.Flow, a types.Answers) []SearchRow {
	if res == nil {
		return nil
	}
	terms := SearchTerms(a.Get(types.FieldSearchTerm))
	base := a.Carried().Without(types.FieldIsHeading, types.FieldIsSubheading, types.FieldSubheadingSuffix)

	rows := make([]SearchRow, 0, len(res.Results))
	for _, item := range res.Results {
		levels := append(append([]string{}, item.Ancestors...), item.Description)
		row := SearchRow{
			Code:      item.Code,
			Kind:      item.Kind,
			Hierarchy: Hierarchy(levels, terms),
		}
		switch {
		case item.Leaf || item.Kind == tariff.KindCommodity:
			row.Link = base.Without(types.FieldSearchTerm).
				With(types.FieldCommodity, item.Code).
				URL(flow.CommodityStep().Path)
		case item.Kind == tariff.KindSubheading:
			row.Link = base.
				With(types.FieldSearchTerm, item.Code).
				With(types.FieldIsSubheading, "true").
				With(types.FieldSubheadingSuffix, item.Suffix).
				URL(wizard.PathSearch)
		default:
			row.Link = base.
				With(types.FieldSearchTerm, item.Code).
				With(types.FieldIsHeading, "true").
				URL(wizard.PathSearch)
		}
		rows = append(rows, row)
	}
	return rows
}

// SearchQueryFor returns the upstream query for the search step the
// Answer Set describes.
func SearchQueryFor(a types.Answers) tariff.SearchQuery {
	term := strings.TrimSpace(a.Get(types.FieldSearchTerm))
	switch {
	case a.Get(types.FieldIsSubheading) == "true":
		return tariff.SearchQuery{Subheading: term, SubheadingSuffix: a.Get(types.FieldSubheadingSuffix)}
	case a.Get(types.FieldIsHeading) == "true":
		return tariff.SearchQuery{Heading: term}
	}
	return tariff.SearchQuery{Term: term}
}
