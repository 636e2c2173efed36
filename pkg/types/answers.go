package types

import (
	"net/url"
	"sort"
	"strings"
)

// Answer Set field names. Each is a query-string key.
const (
	FieldTradeType            = "tradeType"
	FieldGoodsIntent          = "goodsIntent"
	FieldExportGoodsIntent    = "exportGoodsIntent"
	FieldUserTypeTrader       = "userTypeTrader"
	FieldExportUserTypeTrader = "exportUserTypeTrader"
	FieldImportDeclarations   = "importDeclarations"
	FieldExportDeclarations   = "exportDeclarations"
	FieldOriginCountry        = "originCountry"
	FieldDestinationCountry   = "destinationCountry"
	FieldCommodity            = "commodity"
	FieldAdditionalCode       = "additionalCode"
	FieldImportDateDay        = "importDateDay"
	FieldImportDateMonth      = "importDateMonth"
	FieldImportDateYear       = "importDateYear"
	FieldExportDateDay        = "exportDateDay"
	FieldExportDateMonth      = "exportDateMonth"
	FieldExportDateYear       = "exportDateYear"
	FieldIsEdit               = "isEdit"
	FieldOriginal             = "original"
	FieldIsHeading            = "isHeading"
	FieldIsSubheading         = "isSubheading"
	FieldSubheadingSuffix     = "subheadingSuffix"
	FieldSearchTerm           = "searchTerm"
	FieldError                = "error"
	FieldLang                 = "lang"
)

// QuestionFieldPrefix prefixes the field holding the answer to an
// additional question, e.g. "questionCITES".
const QuestionFieldPrefix = "question"

// AdditionalCodeNone is the additionalCode value recorded when the commodity
// carries no additional codes or the trader chose none.
const AdditionalCodeNone = "false"

// Trade types.
const (
	TradeImport = "import"
	TradeExport = "export"
)

// Country codes with fixed meaning in the flows.
const (
	CountryGB = "GB" // Great Britain
	CountryXI = "XI" // Northern Ireland
)

// DateFields names the three query fields that together hold one date.
type DateFields struct {
	Day   string
	Month string
	Year  string
}

// The two independent dates collected by the flows.
var (
	ImportDate = DateFields{Day: FieldImportDateDay, Month: FieldImportDateMonth, Year: FieldImportDateYear}
	ExportDate = DateFields{Day: FieldExportDateDay, Month: FieldExportDateMonth, Year: FieldExportDateYear}
)

// transientFields are never carried forward into links or form targets.
var transientFields = []string{FieldError, FieldLang}

// Answers is the immutable Answer Set for one request.
// The zero value is an empty set.
type Answers struct {
	values map[string]string
}

// NewAnswers builds an Answer Set from alternating field/value pairs.
// A trailing field without a value is ignored.
func NewAnswers(pairs ...string) Answers {
	values := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return Answers{values: values}
}

// FromQuery builds an Answer Set from parsed query parameters. Only the
// first value of a repeated key is kept.
func FromQuery(q url.Values) Answers {
	values := make(map[string]string, len(q))
	for k, vs := range q {
		if k == "" || len(vs) == 0 {
			continue
		}
		values[k] = vs[0]
	}
	return Answers{values: values}
}

// ParseAnswers parses a raw query string into an Answer Set.
func ParseAnswers(rawQuery string) (Answers, error) {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Answers{}, err
	}
	return FromQuery(q), nil
}

// Get returns the value of field, or "" when absent.
func (a Answers) Get(field string) string {
	return a.values[field]
}

// Has reports whether field is present with a non-blank value.
func (a Answers) Has(field string) bool {
	return strings.TrimSpace(a.values[field]) != ""
}

// Len returns the number of fields present.
func (a Answers) Len() int {
	return len(a.values)
}

// Fields returns the field names present, sorted.
func (a Answers) Fields() []string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of the set with field set to value.
func (a Answers) With(field, value string) Answers {
	values := a.clone(1)
	values[field] = value
	return Answers{values: values}
}

// Merge returns a copy of the set with every field of other applied on top.
func (a Answers) Merge(other Answers) Answers {
	values := a.clone(len(other.values))
	for k, v := range other.values {
		values[k] = v
	}
	return Answers{values: values}
}

// Without returns a copy of the set with the given fields removed.
func (a Answers) Without(fields ...string) Answers {
	values := a.clone(0)
	for _, f := range fields {
		delete(values, f)
	}
	return Answers{values: values}
}

// Pick returns a copy holding only the given fields that are present.
func (a Answers) Pick(fields ...string) Answers {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := a.values[f]; ok {
			values[f] = v
		}
	}
	return Answers{values: values}
}

// Carried returns the set without transient fields (error, lang).
func (a Answers) Carried() Answers {
	return a.Without(transientFields...)
}

// TradeType returns the tradeType answer.
func (a Answers) TradeType() string {
	return a.values[FieldTradeType]
}

// IsEdit reports whether the set is in edit mode.
func (a Answers) IsEdit() bool {
	return a.values[FieldIsEdit] == "true"
}

// Date returns the raw day, month and year strings for df.
func (a Answers) Date(df DateFields) (day, month, year string) {
	return a.values[df.Day], a.values[df.Month], a.values[df.Year]
}

// Query returns the set as url.Values.
func (a Answers) Query() url.Values {
	q := make(url.Values, len(a.values))
	for k, v := range a.values {
		q.Set(k, v)
	}
	return q
}

// Encode returns the set as a query string with keys sorted.
func (a Answers) Encode() string {
	return a.Query().Encode()
}

// URL returns path with the encoded set attached as its query string.
func (a Answers) URL(path string) string {
	if len(a.values) == 0 {
		return path
	}
	return path + "?" + a.Encode()
}

func (a Answers) clone(extra int) map[string]string {
	values := make(map[string]string, len(a.values)+extra)
	for k, v := range a.values {
		values[k] = v
	}
	return values
}
