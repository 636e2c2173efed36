package tariff

// Query keys every measure and duty lookup.
type Query struct {
	Commodity          string
	OriginCountry      string
	DestinationCountry string
	TradeType          string
	Date               string // YYYY-MM-DD
	AdditionalCode     string
}

// Commodity is a classified commodity with its place in the tree.
type Commodity struct {
	Code            string           `json:"code"`
	Description     string           `json:"description"`
	Ancestors       []string         `json:"ancestors"`
	AdditionalCodes []AdditionalCode `json:"additionalCodes"`
}

// AdditionalCode further classifies a commodity beyond its ten digits.
type AdditionalCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SearchQuery drives one step of the classification search. With Heading
// set the upstream returns the children of that heading instead of
// matching Term.
type SearchQuery struct {
	Term             string
	Heading          string
	Subheading       string
	SubheadingSuffix string
}

// SearchResult is one page of classification search results.
type SearchResult struct {
	Term    string       `json:"term"`
	Results []SearchItem `json:"results"`
}

// SearchItem kinds.
const (
	KindChapter    = "chapter"
	KindHeading    = "heading"
	KindSubheading = "subheading"
	KindCommodity  = "commodity"
)

// SearchItem is one node of the classification tree.
type SearchItem struct {
	Code        string   `json:"code"`
	Suffix      string   `json:"suffix,omitempty"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Ancestors   []string `json:"ancestors"`
	Leaf        bool     `json:"leaf"`
}

// Measure kinds.
const (
	MeasureLicence     = "licence"
	MeasureRestriction = "restriction"
	MeasureProhibition = "prohibition"
	MeasureCertificate = "certificate"
)

// Measures lists the regulatory measures for one trade.
type Measures struct {
	Measures []Measure `json:"measures"`
}

// Measure is a regulatory requirement. Children apply only when the
// measure itself applies; a Gate limits the measure to traders who gave a
// specific answer to an earlier question.
type Measure struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Certificates []string  `json:"certificates"`
	Gate         *Gate     `json:"gate,omitempty"`
	Children     []Measure `json:"children"`
}

// Gate ties a measure to the answer of an additional question.
type Gate struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Duties holds the customs duty (tariff) and tax lines for one trade.
type Duties struct {
	Tariffs []DutyLine `json:"tariffs"`
	Taxes   []DutyLine `json:"taxes"`
}

// DutyLine is one duty or tax rate, e.g. "12.00%".
type DutyLine struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// errorBody is the upstream rejection payload.
type errorBody struct {
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
