package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/i18n"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// option is one radio button or select entry.
type option struct {
	Value   string
	Label   string
	Hint    string
	Checked bool
}

// hiddenInput is a form field the trader does not see.
type hiddenInput struct {
	Name  string
	Value string
}

// hiddenInputs carries an Answer Set through a GET form.
func hiddenInputs(a types.Answers) []hiddenInput {
	fields := a.Fields()
	out := make([]hiddenInput, 0, len(fields))
	for _, f := range fields {
		out = append(out, hiddenInput{Name: f, Value: a.Get(f)})
	}
	return out
}

// pageData is what every template receives. Page-specific fields stay
// zero on pages that do not use them.
type pageData struct {
	Lang      string
	TitleKey  string
	Action    string
	Back      string
	CSRF      string
	Error     string
	ErrorCode types.ErrorCode
	SwitchURL string

	Field     string
	Kind      string
	Hint      string
	Options   []option
	Value     string
	Day       string
	Month     string
	Year      string
	SearchURL string
	Hidden    []hiddenInput

	DateFields types.DateFields

	catalog *i18n.Catalog
	Extra   any
}

// T translates key in the page language.
func (d pageData) T(key string, args ...any) string {
	return d.catalog.T(d.Lang, key, args...)
}

// FormatDate renders t as "7 March 2027" in the page language.
func (d pageData) FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), d.T("month."+strconv.Itoa(int(t.Month()))), t.Year())
}

// newPage starts the data for a page. errField names the locale group of
// the page's error messages.
func (s *Server) newPage(r *http.Request, a types.Answers, titleKey, errField string) pageData {
	lang := langFrom(r.Context())
	d := pageData{
		Lang:      lang,
		TitleKey:  titleKey,
		Action:    a.Carried().URL(r.URL.Path),
		CSRF:      csrfFrom(r.Context()),
		SwitchURL: a.Carried().With(types.FieldLang, s.otherLang(lang)).URL(r.URL.Path),
		catalog:   s.catalog,
	}
	if code := types.ErrorCode(a.Get(types.FieldError)); !code.OK() {
		d.ErrorCode = code
		d.Error = s.errorMessage(lang, errField, code)
	}
	return d
}

func (s *Server) otherLang(lang string) string {
	if lang == i18n.Welsh {
		return i18n.English
	}
	return i18n.Welsh
}

// errorMessage resolves the message for code on a page. Unknown codes get
// the generic message rather than a raw key.
func (s *Server) errorMessage(lang, field string, code types.ErrorCode) string {
	if msg, ok := s.catalog.Lookup(lang, "error."+field+"."+code.String()); ok {
		return msg
	}
	return s.catalog.T(lang, "error.generic")
}

// render buffers the page so a template error still yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error",
			zap.String("id", requestIDFrom(r.Context())),
			zap.String("template", name),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorView is the Extra of the error page.
type errorView struct {
	Status  int
	Title   string
	Message string
}

// errorKeys maps statuses with their own wording.
var errorKeys = map[int]string{
	http.StatusNotFound:            "404",
	http.StatusInternalServerError: "500",
	http.StatusServiceUnavailable:  "503",
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int) {
	key, ok := errorKeys[status]
	if !ok {
		key = "default"
	}
	d := s.newPage(r, types.Answers{}, "errorPage."+key+".title", "")
	d.Extra = errorView{
		Status:  status,
		Title:   d.T("errorPage." + key + ".title"),
		Message: d.T("errorPage." + key + ".message"),
	}
	s.render(w, r, status, "error", d)
}

// renderSessionExpired answers a failed CSRF check. It is not an HTTP
// failure from the trader's point of view, so the status is 200.
func (s *Server) renderSessionExpired(w http.ResponseWriter, r *http.Request) {
	d := s.newPage(r, types.Answers{}, "errorPage.sessionExpired.title", "")
	d.Extra = errorView{
		Status:  http.StatusOK,
		Title:   d.T("errorPage.sessionExpired.title"),
		Message: d.T("errorPage.sessionExpired.message"),
	}
	s.render(w, r, http.StatusOK, "error", d)
}
