// Package wizard is the navigation engine of the questionnaire.
//
// Each trade type has a Flow: the ordered steps that collect its answers.
// Guard decides, before a page renders, whether the Answer Set satisfies
// every step upstream of that page; Advance is the pure transition applied
// when a page is submitted. Neither touches HTTP.
package wizard

import (
	"time"

	"github.com/mesh-intelligence/tradecheck/internal/validate"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Page paths.
const (
	PathStart                     = "/"
	PathTypeOfTrade               = "/type-of-trade"
	PathGoodsIntent               = "/goods-intent"
	PathIdentifyUserType          = "/identify-user-type"
	PathImportDeclarations        = "/import-declarations"
	PathImportOrigin              = "/import-country-origin"
	PathImportDestination         = "/country-destination"
	PathImportDate                = "/import-date"
	PathImportGoods               = "/import-goods"
	PathSearch                    = "/search"
	PathAdditionalCode            = "/additional-code"
	PathAdditionalQuestions       = "/additional-questions"
	PathCheckYourAnswers          = "/check-your-answers"
	PathManageThisTrade           = "/manage-this-trade"
	PathExportGoodsIntent         = "/export-goods-intent"
	PathExportUserType            = "/export-user-type-trader"
	PathExportDeclarations        = "/export-declarations"
	PathExportOrigin              = "/export-country-origin"
	PathExportDestination         = "/export-country-destination"
	PathExportDate                = "/export-goods-arrival-date"
	PathExportCommodity           = "/export-commodity-search"
	PathExportAdditionalQuestions = "/export-additional-questions"
	PathExportCheckYourAnswers    = "/export-check-your-answers"
	PathTaskList                  = "/task-list"
	PathNorthernIrelandEU         = "/northern-ireland-and-eu-trading"
)

// Options offered by the radio pages.
var (
	TradeTypes         = []string{types.TradeImport, types.TradeExport}
	GoodsIntents       = []string{"bringGoodsToSell", "bringGoodsToUseInBusiness", "bringGoodsTemporarily", "bringGoodsThroughPost"}
	ExportGoodsIntents = []string{"sellingGoods", "goodsForBusinessUse", "goodsExportedTemporarily", "sendingGoodsByPost"}
	UserTypes          = []string{"true", "false"}
	Declarations       = []string{"yes", "no", "notSure"}
	UKCountries        = []string{types.CountryGB, types.CountryXI}
	QuestionAnswers    = []string{"yes", "no"}
)

// Env carries what the checks need beyond the Answer Set.
type Env struct {
	Today time.Time
	// IsEU reports EU membership of a country code.
	IsEU func(code string) bool
}

func (e Env) isEU(code string) bool {
	return e.IsEU != nil && e.IsEU(code)
}

// Step is one question page of a flow.
type Step struct {
	Path   string
	Fields []string
	Check  func(a types.Answers, env Env) types.ErrorCode
	// Profile steps describe the trader rather than the goods; they gate
	// only the summary pages.
	Profile bool
	// Date is set on date steps, whose edit original is "day/month/year".
	Date *types.DateFields
}

// Flow is the ordered question sequence of one trade type.
type Flow struct {
	TradeType           string
	Steps               []Step
	AdditionalQuestions string
	CheckAnswers        string
	Summary             string
}

func oneOf(field string, options []string) func(types.Answers, Env) types.ErrorCode {
	return func(a types.Answers, _ Env) types.ErrorCode {
		return validate.OneOf(a.Get(field), options...)
	}
}

func required(field string) func(types.Answers, Env) types.ErrorCode {
	return func(a types.Answers, _ Env) types.ErrorCode {
		return validate.Required(a.Get(field))
	}
}

func dateCheck(df types.DateFields) func(types.Answers, Env) types.ErrorCode {
	return func(a types.Answers, env Env) types.ErrorCode {
		d, m, y := a.Date(df)
		return validate.Date(d, m, y, env.Today)
	}
}

func commodityCheck(a types.Answers, _ Env) types.ErrorCode {
	return validate.CommodityCode(a.Get(types.FieldCommodity))
}

var tradeTypeStep = Step{
	Path:   PathTypeOfTrade,
	Fields: []string{types.FieldTradeType},
	Check:  oneOf(types.FieldTradeType, TradeTypes),
}

var additionalCodeStep = Step{
	Path:   PathAdditionalCode,
	Fields: []string{types.FieldAdditionalCode},
	Check:  required(types.FieldAdditionalCode),
}

// ImportFlow collects an import.
var ImportFlow = &Flow{
	TradeType: types.TradeImport,
	Steps: []Step{
		tradeTypeStep,
		{Path: PathGoodsIntent, Fields: []string{types.FieldGoodsIntent}, Check: oneOf(types.FieldGoodsIntent, GoodsIntents), Profile: true},
		{Path: PathIdentifyUserType, Fields: []string{types.FieldUserTypeTrader}, Check: oneOf(types.FieldUserTypeTrader, UserTypes), Profile: true},
		{Path: PathImportDeclarations, Fields: []string{types.FieldImportDeclarations}, Check: oneOf(types.FieldImportDeclarations, Declarations), Profile: true},
		{Path: PathImportOrigin, Fields: []string{types.FieldOriginCountry}, Check: required(types.FieldOriginCountry)},
		{Path: PathImportDestination, Fields: []string{types.FieldDestinationCountry}, Check: oneOf(types.FieldDestinationCountry, UKCountries)},
		{Path: PathImportDate, Fields: dateFieldList(types.ImportDate), Check: dateCheck(types.ImportDate), Date: &types.ImportDate},
		{Path: PathImportGoods, Fields: []string{types.FieldCommodity}, Check: commodityCheck},
		additionalCodeStep,
	},
	AdditionalQuestions: PathAdditionalQuestions,
	CheckAnswers:        PathCheckYourAnswers,
	Summary:             PathManageThisTrade,
}

// ExportFlow collects an export.
var ExportFlow = &Flow{
	TradeType: types.TradeExport,
	Steps: []Step{
		tradeTypeStep,
		{Path: PathExportGoodsIntent, Fields: []string{types.FieldExportGoodsIntent}, Check: oneOf(types.FieldExportGoodsIntent, ExportGoodsIntents), Profile: true},
		{Path: PathExportUserType, Fields: []string{types.FieldExportUserTypeTrader}, Check: oneOf(types.FieldExportUserTypeTrader, UserTypes), Profile: true},
		{Path: PathExportDeclarations, Fields: []string{types.FieldExportDeclarations}, Check: oneOf(types.FieldExportDeclarations, Declarations), Profile: true},
		{Path: PathExportOrigin, Fields: []string{types.FieldOriginCountry}, Check: oneOf(types.FieldOriginCountry, UKCountries)},
		{Path: PathExportDestination, Fields: []string{types.FieldDestinationCountry}, Check: required(types.FieldDestinationCountry)},
		{Path: PathExportDate, Fields: dateFieldList(types.ExportDate), Check: dateCheck(types.ExportDate), Date: &types.ExportDate},
		{Path: PathExportCommodity, Fields: []string{types.FieldCommodity}, Check: commodityCheck},
		additionalCodeStep,
	},
	AdditionalQuestions: PathExportAdditionalQuestions,
	CheckAnswers:        PathExportCheckYourAnswers,
	Summary:             PathTaskList,
}

func dateFieldList(df types.DateFields) []string {
	return []string{df.Day, df.Month, df.Year}
}

// FlowFor returns the flow of a trade type.
func FlowFor(tradeType string) (*Flow, bool) {
	switch tradeType {
	case types.TradeImport:
		return ImportFlow, true
	case types.TradeExport:
		return ExportFlow, true
	}
	return nil, false
}

// StepIndex returns the position of the step at path, or -1.
func (f *Flow) StepIndex(path string) int {
	for i, s := range f.Steps {
		if s.Path == path {
			return i
		}
	}
	return -1
}

// Step returns the step at path.
func (f *Flow) Step(path string) (Step, bool) {
	if i := f.StepIndex(path); i >= 0 {
		return f.Steps[i], true
	}
	return Step{}, false
}

// StepFor returns the step that owns field.
func (f *Flow) StepFor(field string) (Step, bool) {
	for _, s := range f.Steps {
		for _, sf := range s.Fields {
			if sf == field {
				return s, true
			}
		}
	}
	return Step{}, false
}

// Next returns the page after the step at path.
func (f *Flow) Next(path string) string {
	i := f.StepIndex(path)
	if i < 0 || i+1 >= len(f.Steps) {
		return f.AdditionalQuestions
	}
	return f.Steps[i+1].Path
}

// Previous returns the page before path, used for back links.
func (f *Flow) Previous(path string) string {
	switch path {
	case PathSearch:
		return f.CommodityStep().Path
	case f.AdditionalQuestions:
		return PathAdditionalCode
	case f.CheckAnswers:
		return f.AdditionalQuestions
	case f.Summary:
		return f.CheckAnswers
	}
	i := f.StepIndex(path)
	if i <= 0 {
		return PathStart
	}
	return f.Steps[i-1].Path
}

// CommodityStep returns the page that collects the commodity code.
func (f *Flow) CommodityStep() Step {
	s, _ := f.StepFor(types.FieldCommodity)
	return s
}

// DestinationStep returns the page that collects the destination.
func (f *Flow) DestinationStep() Step {
	s, _ := f.StepFor(types.FieldDestinationCountry)
	return s
}

// OriginStep returns the page that collects the origin.
func (f *Flow) OriginStep() Step {
	s, _ := f.StepFor(types.FieldOriginCountry)
	return s
}

// DateFields returns the date fields collected by the flow.
func (f *Flow) DateFields() types.DateFields {
	for _, s := range f.Steps {
		if s.Date != nil {
			return *s.Date
		}
	}
	return types.DateFields{}
}

// Owns reports whether path is a page of the flow.
func (f *Flow) Owns(path string) bool {
	if f.StepIndex(path) >= 0 {
		return true
	}
	switch path {
	case PathSearch, f.AdditionalQuestions, f.CheckAnswers, f.Summary:
		return true
	}
	return false
}
