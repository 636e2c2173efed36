package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/validate"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Question page kinds, also the template branch they render.
const (
	kindRadio     = "radio"
	kindCountry   = "country"
	kindDate      = "date"
	kindCommodity = "commodity"
)

// errFieldDate groups the date error messages of both flows.
const errFieldDate = "date"

// questionPage describes one step page.
type questionPage struct {
	Path    string
	Key     string
	Field   string
	Kind    string
	Options []string
	Hint    string
	Date    types.DateFields
	Flow    *wizard.Flow
}

func (p questionPage) errField() string {
	if p.Kind == kindDate {
		return errFieldDate
	}
	return p.Field
}

var questionPages = []questionPage{
	{Path: wizard.PathTypeOfTrade, Key: "typeOfTrade", Field: types.FieldTradeType, Kind: kindRadio, Options: wizard.TradeTypes},

	{Path: wizard.PathGoodsIntent, Key: "goodsIntent", Field: types.FieldGoodsIntent, Kind: kindRadio, Options: wizard.GoodsIntents, Flow: wizard.ImportFlow},
	{Path: wizard.PathIdentifyUserType, Key: "identifyUserType", Field: types.FieldUserTypeTrader, Kind: kindRadio, Options: wizard.UserTypes, Flow: wizard.ImportFlow},
	{Path: wizard.PathImportDeclarations, Key: "importDeclarations", Field: types.FieldImportDeclarations, Kind: kindRadio, Options: wizard.Declarations, Flow: wizard.ImportFlow},
	{Path: wizard.PathImportOrigin, Key: "importOrigin", Field: types.FieldOriginCountry, Kind: kindCountry, Hint: "hint.importOrigin", Flow: wizard.ImportFlow},
	{Path: wizard.PathImportDestination, Key: "importDestination", Field: types.FieldDestinationCountry, Kind: kindRadio, Options: wizard.UKCountries, Flow: wizard.ImportFlow},
	{Path: wizard.PathImportDate, Key: "importDate", Kind: kindDate, Hint: "hint.date", Date: types.ImportDate, Flow: wizard.ImportFlow},
	{Path: wizard.PathImportGoods, Key: "importGoods", Field: types.FieldCommodity, Kind: kindCommodity, Hint: "hint.commodity", Flow: wizard.ImportFlow},

	{Path: wizard.PathExportGoodsIntent, Key: "exportGoodsIntent", Field: types.FieldExportGoodsIntent, Kind: kindRadio, Options: wizard.ExportGoodsIntents, Flow: wizard.ExportFlow},
	{Path: wizard.PathExportUserType, Key: "exportUserType", Field: types.FieldExportUserTypeTrader, Kind: kindRadio, Options: wizard.UserTypes, Flow: wizard.ExportFlow},
	{Path: wizard.PathExportDeclarations, Key: "exportDeclarations", Field: types.FieldExportDeclarations, Kind: kindRadio, Options: wizard.Declarations, Flow: wizard.ExportFlow},
	{Path: wizard.PathExportOrigin, Key: "exportOrigin", Field: types.FieldOriginCountry, Kind: kindRadio, Options: wizard.UKCountries, Flow: wizard.ExportFlow},
	{Path: wizard.PathExportDestination, Key: "exportDestination", Field: types.FieldDestinationCountry, Kind: kindCountry, Hint: "hint.exportDestination", Flow: wizard.ExportFlow},
	{Path: wizard.PathExportDate, Key: "exportDate", Kind: kindDate, Hint: "hint.date", Date: types.ExportDate, Flow: wizard.ExportFlow},
	{Path: wizard.PathExportCommodity, Key: "exportCommodity", Field: types.FieldCommodity, Kind: kindCommodity, Hint: "hint.commodity", Flow: wizard.ExportFlow},
}

// answersFrom returns the Answer Set in the request URL.
func answersFrom(r *http.Request) types.Answers {
	return types.FromQuery(r.URL.Query())
}

// guard applies the page preconditions and redirects when they fail.
func (s *Server) guard(w http.ResponseWriter, r *http.Request, path string, a types.Answers) bool {
	d := wizard.Guard(path, a, s.env(r.Context()))
	if d.Render() {
		return true
	}
	http.Redirect(w, r, d.Location, http.StatusFound)
	return false
}

func (s *Server) backLink(path string, a types.Answers) string {
	flow, ok := wizard.FlowFor(a.TradeType())
	if !ok {
		return wizard.PathStart
	}
	return a.Carried().Without(types.FieldIsEdit, types.FieldOriginal).URL(flow.Previous(path))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	d := s.newPage(r, types.Answers{}, "title.start", "")
	d.Action = wizard.PathTypeOfTrade
	s.render(w, r, http.StatusOK, "start", d)
}

func (s *Server) handleNorthernIrelandEU(w http.ResponseWriter, r *http.Request) {
	a := answersFrom(r)
	d := s.newPage(r, a, "title.northernIrelandEU", "")
	d.Back = wizard.PathStart
	if flow, ok := wizard.FlowFor(a.TradeType()); ok {
		d.Back = a.Carried().URL(flow.OriginStep().Path)
	}
	s.render(w, r, http.StatusOK, "ni-eu", d)
}

func (s *Server) showQuestion(p questionPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := answersFrom(r)
		if !s.guard(w, r, p.Path, a) {
			return
		}
		d := s.newPage(r, a, "title."+p.Key, p.errField())
		d.Field = p.Field
		d.Kind = p.Kind
		d.Hint = p.Hint
		d.Back = s.backLink(p.Path, a)

		switch p.Kind {
		case kindRadio:
			d.Options = s.radioOptions(d, p.Field, p.Options, a.Get(p.Field))
		case kindCountry:
			opts, err := s.countryOptions(r, d.Lang, a.Get(p.Field))
			if err != nil {
				s.logger.Error("listing countries", zap.Error(err))
				s.renderError(w, r, http.StatusInternalServerError)
				return
			}
			d.Options = opts
		case kindDate:
			d.Day, d.Month, d.Year = a.Date(p.Date)
			d.DateFields = p.Date
		case kindCommodity:
			d.Value = a.Get(p.Field)
			d.SearchURL = a.Carried().Without(types.FieldIsEdit, types.FieldOriginal, types.FieldCommodity).URL(wizard.PathSearch)
		}
		s.render(w, r, http.StatusOK, "question", d)
	}
}

func (s *Server) radioOptions(d pageData, field string, values []string, selected string) []option {
	opts := make([]option, 0, len(values))
	for _, v := range values {
		opts = append(opts, option{Value: v, Label: d.T("option." + field + "." + v), Checked: v == selected})
	}
	return opts
}

func (s *Server) countryOptions(r *http.Request, lang, selected string) ([]option, error) {
	countries, err := s.ref.Countries(r.Context())
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(countries))
	for _, c := range countries {
		opts = append(opts, option{Value: c.Code, Label: c.DisplayName(lang), Checked: c.Code == selected})
	}
	return opts, nil
}

func (s *Server) submitQuestion(p questionPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := answersFrom(r)
		if !s.guard(w, r, p.Path, current) {
			return
		}
		input := formAnswers(r)

		if p.Kind == kindCommodity {
			code := strings.TrimSpace(input.Get(types.FieldCommodity))
			input = input.With(types.FieldCommodity, code)
			res, err := validate.ResolveCommodity(r.Context(), code, s.ref, s.tariff)
			if err != nil {
				s.upstreamFailed(w, r, p.Flow, current, err)
				return
			}
			if !res.OK() {
				tr := wizard.Fail(p.Path, current.Merge(input.Pick(types.FieldCommodity)), res)
				http.Redirect(w, r, tr.Location, http.StatusFound)
				return
			}
		}

		tr, err := wizard.Advance(p.Path, current, input, s.env(r.Context()))
		if err != nil {
			s.logger.Error("advance", zap.String("path", p.Path), zap.Error(err))
			s.renderError(w, r, http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, tr.Location, http.StatusFound)
	}
}

// formAnswers returns the submitted form fields as an Answer Set.
func formAnswers(r *http.Request) types.Answers {
	if err := r.ParseForm(); err != nil {
		return types.Answers{}
	}
	return types.FromQuery(r.PostForm).Without(formCSRF)
}
