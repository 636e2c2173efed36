package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/present"
	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/internal/validate"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

const upstreamDateLayout = "2006-01-02"

// tradeQuery keys the upstream calls for the trade in a.
func tradeQuery(flow *wizard.Flow, a types.Answers) tariff.Query {
	q := tariff.Query{
		Commodity:          a.Get(types.FieldCommodity),
		OriginCountry:      a.Get(types.FieldOriginCountry),
		DestinationCountry: a.Get(types.FieldDestinationCountry),
		TradeType:          a.TradeType(),
	}
	d, m, y := a.Date(flow.DateFields())
	if t, ok := validate.ParseDate(d, m, y, time.UTC); ok {
		q.Date = t.Format(upstreamDateLayout)
	}
	if code := a.Get(types.FieldAdditionalCode); code != types.AdditionalCodeNone {
		q.AdditionalCode = code
	}
	return q
}

// currentFlow returns the flow of a. Pages reached past the guard always
// have one.
func currentFlow(a types.Answers) *wizard.Flow {
	flow, ok := wizard.FlowFor(a.TradeType())
	if !ok {
		return wizard.ImportFlow
	}
	return flow
}

// upstreamFailed sends rejections back to the page that owns the rejected
// answer and shows the error page for anything else.
func (s *Server) upstreamFailed(w http.ResponseWriter, r *http.Request, flow *wizard.Flow, a types.Answers, err error) {
	if flow == nil {
		flow = currentFlow(a)
	}
	if path, code, ok := flow.Rejection(err); ok {
		tr := wizard.Fail(path, a, code)
		http.Redirect(w, r, tr.Location, http.StatusFound)
		return
	}
	status := http.StatusInternalServerError
	if errors.Is(err, tariff.ErrUpstream) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Error("tariff api call failed",
		zap.String("id", requestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	s.renderError(w, r, status)
}

// searchView is the Extra of the search page.
type searchView struct {
	Term     string
	Searched bool
	Rows     []present.SearchRow
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	a := answersFrom(r)
	if !s.guard(w, r, wizard.PathSearch, a) {
		return
	}
	flow := currentFlow(a)
	d := s.newPage(r, a, "title.search", "")
	d.Back = s.backLink(wizard.PathSearch, a)
	d.Action = wizard.PathSearch
	d.Hidden = hiddenInputs(a.Carried().Without(types.FieldSearchTerm, types.FieldIsHeading, types.FieldIsSubheading, types.FieldSubheadingSuffix))

	view := searchView{Term: strings.TrimSpace(a.Get(types.FieldSearchTerm))}
	if view.Term != "" {
		res, err := s.tariff.Search(r.Context(), present.SearchQueryFor(a))
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		view.Searched = true
		view.Rows = present.SearchRows(res, flow, a)
	}
	d.Extra = view
	s.render(w, r, http.StatusOK, "search", d)
}

func (s *Server) showAdditionalCode(w http.ResponseWriter, r *http.Request) {
	a := answersFrom(r)
	if !s.guard(w, r, wizard.PathAdditionalCode, a) {
		return
	}
	flow := currentFlow(a)
	q := tradeQuery(flow, a)
	q.AdditionalCode = ""
	commodity, err := s.tariff.Commodity(r.Context(), q.Commodity, q)
	if err != nil {
		s.upstreamFailed(w, r, flow, a, err)
		return
	}

	if len(commodity.AdditionalCodes) == 0 {
		tr, err := wizard.Advance(wizard.PathAdditionalCode, a,
			types.NewAnswers(types.FieldAdditionalCode, types.AdditionalCodeNone), s.env(r.Context()))
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		http.Redirect(w, r, tr.Location, http.StatusFound)
		return
	}

	d := s.newPage(r, a, "title.additionalCode", types.FieldAdditionalCode)
	d.Field = types.FieldAdditionalCode
	d.Kind = kindRadio
	d.Hint = "hint.additionalCode"
	d.Back = s.backLink(wizard.PathAdditionalCode, a)
	selected := a.Get(types.FieldAdditionalCode)
	for _, c := range commodity.AdditionalCodes {
		d.Options = append(d.Options, option{
			Value:   c.Code,
			Label:   c.Code,
			Hint:    c.Description,
			Checked: c.Code == selected,
		})
	}
	d.Options = append(d.Options, option{
		Value:   types.AdditionalCodeNone,
		Label:   d.T("option.additionalCode.none"),
		Checked: selected == types.AdditionalCodeNone,
	})
	s.render(w, r, http.StatusOK, "question", d)
}

func (s *Server) submitAdditionalCode(w http.ResponseWriter, r *http.Request) {
	current := answersFrom(r)
	if !s.guard(w, r, wizard.PathAdditionalCode, current) {
		return
	}
	tr, err := wizard.Advance(wizard.PathAdditionalCode, current, formAnswers(r), s.env(r.Context()))
	if err != nil {
		s.logger.Error("advance", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, tr.Location, http.StatusFound)
}

// questions fetches the measures of the trade and derives the additional
// questions from them.
func (s *Server) questions(r *http.Request, flow *wizard.Flow, a types.Answers) (*tariff.Measures, []present.Question, error) {
	ms, err := s.tariff.Measures(r.Context(), tradeQuery(flow, a))
	if err != nil {
		return nil, nil, err
	}
	logger := s.logger.With(zap.String("id", requestIDFrom(r.Context())), zap.String("commodity", a.Get(types.FieldCommodity)))
	return ms, present.Questions(ms, a, logger), nil
}

func (s *Server) showAdditionalQuestion(flow *wizard.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := answersFrom(r)
		if !s.guard(w, r, flow.AdditionalQuestions, a) {
			return
		}
		_, qs, err := s.questions(r, flow, a)
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		q, ok := present.NextUnanswered(qs)
		if !ok {
			next := a.Carried().Without(types.FieldIsEdit, types.FieldOriginal)
			http.Redirect(w, r, next.URL(flow.CheckAnswers), http.StatusFound)
			return
		}

		d := s.newPage(r, a, "question."+q.ID+".text", "question")
		d.Field = "answer"
		d.Kind = kindRadio
		d.Hint = "question." + q.ID + ".hint"
		d.Back = s.backLink(flow.AdditionalQuestions, a)
		d.Options = s.radioOptions(d, "question", wizard.QuestionAnswers, "")
		d.Hidden = []hiddenInput{{Name: "question", Value: q.ID}}
		s.render(w, r, http.StatusOK, "question", d)
	}
}

func (s *Server) submitAdditionalQuestion(flow *wizard.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := answersFrom(r)
		if !s.guard(w, r, flow.AdditionalQuestions, current) {
			return
		}
		input := formAnswers(r)
		id := input.Get("question")
		if !present.KnownQuestion(id) {
			s.renderError(w, r, http.StatusBadRequest)
			return
		}
		tr := wizard.AnswerQuestion(flow, current, id, input.Get("answer"))
		http.Redirect(w, r, tr.Location, http.StatusFound)
	}
}

// answersView is the Extra of the check-your-answers page.
type answersView struct {
	Rows    []present.Row
	Confirm string
}

func (s *Server) handleCheckAnswers(flow *wizard.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := answersFrom(r).Without(types.FieldIsEdit, types.FieldOriginal)
		if !s.guard(w, r, flow.CheckAnswers, a) {
			return
		}
		_, qs, err := s.questions(r, flow, a)
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		if _, ok := present.NextUnanswered(qs); ok {
			http.Redirect(w, r, a.Carried().URL(flow.AdditionalQuestions), http.StatusFound)
			return
		}

		d := s.newPage(r, a, "title."+pageKey(flow.CheckAnswers), "")
		d.Back = s.backLink(flow.CheckAnswers, a)
		d.Extra = answersView{
			Rows:    present.CheckAnswers(flow, a, qs, s.countryName(r, d.Lang)),
			Confirm: a.Carried().URL(flow.Summary),
		}
		s.render(w, r, http.StatusOK, "check-answers", d)
	}
}

func (s *Server) countryName(r *http.Request, lang string) func(string) string {
	return func(code string) string {
		c, err := s.ref.Country(r.Context(), code)
		if err != nil {
			return code
		}
		return c.DisplayName(lang)
	}
}

// summaryView is the Extra of the guidance pages.
type summaryView struct {
	Export    bool
	Commodity *tariff.Commodity
	Measures  []present.MeasureRow
	Duty      present.DutySummary
	StartOver string
}

func (s *Server) handleSummary(flow *wizard.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := answersFrom(r)
		if !s.guard(w, r, flow.Summary, a) {
			return
		}
		ms, qs, err := s.questions(r, flow, a)
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		if _, ok := present.NextUnanswered(qs); ok {
			http.Redirect(w, r, a.Carried().URL(flow.AdditionalQuestions), http.StatusFound)
			return
		}
		q := tradeQuery(flow, a)
		commodity, err := s.tariff.Commodity(r.Context(), q.Commodity, q)
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}
		duties, err := s.tariff.Duties(r.Context(), q)
		if err != nil {
			s.upstreamFailed(w, r, flow, a, err)
			return
		}

		d := s.newPage(r, a, "title."+pageKey(flow.Summary), "")
		d.Back = s.backLink(flow.Summary, a)
		d.Extra = summaryView{
			Export:    flow == wizard.ExportFlow,
			Commodity: commodity,
			Measures:  present.MeasureRows(ms, a),
			Duty:      present.Duties(duties, a, s.calculators(), s.env(r.Context()).IsEU),
			StartOver: wizard.PathTypeOfTrade,
		}
		s.render(w, r, http.StatusOK, "summary", d)
	}
}

// pageKey maps the summary paths to their title keys.
func pageKey(path string) string {
	switch path {
	case wizard.PathCheckYourAnswers:
		return "checkYourAnswers"
	case wizard.PathExportCheckYourAnswers:
		return "exportCheckYourAnswers"
	case wizard.PathManageThisTrade:
		return "manageThisTrade"
	case wizard.PathTaskList:
		return "taskList"
	}
	return "start"
}
