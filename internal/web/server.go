// Package web serves the questionnaire over HTTP.
//
// Every page is a GET that checks the Answer Set carried in its query
// string and either renders or redirects to the first page still needing
// an answer. Forms POST back to their own URL; a valid submission
// redirects onwards, an invalid one redirects back with an error code.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/i18n"
	"github.com/mesh-intelligence/tradecheck/internal/present"
	"github.com/mesh-intelligence/tradecheck/internal/tariff"
	"github.com/mesh-intelligence/tradecheck/internal/wizard"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// Tariff is the upstream trade-tariff API.
type Tariff interface {
	Commodity(ctx context.Context, code string, q tariff.Query) (*tariff.Commodity, error)
	CommodityExists(ctx context.Context, code string) (bool, error)
	Search(ctx context.Context, sq tariff.SearchQuery) (*tariff.SearchResult, error)
	Measures(ctx context.Context, q tariff.Query) (*tariff.Measures, error)
	Duties(ctx context.Context, q tariff.Query) (*tariff.Duties, error)
}

// Reference is the local reference data.
type Reference interface {
	Country(ctx context.Context, code string) (types.Country, error)
	Countries(ctx context.Context) ([]types.Country, error)
	IsEU(ctx context.Context, code string) (bool, error)
	HasCommodity(ctx context.Context, code string) (bool, error)
}

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("web: tariff, refdata and catalog are required")

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Config  types.Config
	Tariff  Tariff
	Refdata Reference
	Catalog *i18n.Catalog
	Logger  *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the questionnaire web application.
type Server struct {
	cfg       types.Config
	tariff    Tariff
	ref       Reference
	catalog   *i18n.Catalog
	logger    *zap.Logger
	now       func() time.Time
	templates *template.Template
	router    chi.Router
}

// New builds a Server. Tariff, Refdata and Catalog are required.
func New(opts Options) (*Server, error) {
	if opts.Tariff == nil || opts.Refdata == nil || opts.Catalog == nil {
		return nil, ErrMissingDependency
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	s := &Server{
		cfg:       opts.Config,
		tariff:    opts.Tariff,
		ref:       opts.Refdata,
		catalog:   opts.Catalog,
		logger:    opts.Logger,
		now:       opts.Now,
		templates: tmpl,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	r.Use(s.negotiateLanguage)
	r.Use(s.csrf)

	r.Get("/healthz", s.handleHealth)
	r.Get(wizard.PathStart, s.handleStart)
	r.Get(wizard.PathNorthernIrelandEU, s.handleNorthernIrelandEU)

	for _, p := range questionPages {
		r.Get(p.Path, s.showQuestion(p))
		r.Post(p.Path, s.submitQuestion(p))
	}

	r.Get(wizard.PathSearch, s.handleSearch)
	r.Get(wizard.PathAdditionalCode, s.showAdditionalCode)
	r.Post(wizard.PathAdditionalCode, s.submitAdditionalCode)

	for _, f := range []*wizard.Flow{wizard.ImportFlow, wizard.ExportFlow} {
		r.Get(f.AdditionalQuestions, s.showAdditionalQuestion(f))
		r.Post(f.AdditionalQuestions, s.submitAdditionalQuestion(f))
		r.Get(f.CheckAnswers, s.handleCheckAnswers(f))
		r.Get(f.Summary, s.handleSummary(f))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusMethodNotAllowed)
	})
	return r
}

// env builds the navigation environment for one request.
func (s *Server) env(ctx context.Context) wizard.Env {
	return wizard.Env{
		Today: s.now(),
		IsEU: func(code string) bool {
			eu, err := s.ref.IsEU(ctx, code)
			if err != nil {
				s.logger.Warn("eu lookup failed", zap.String("country", code), zap.Error(err))
				return false
			}
			return eu
		},
	}
}

func (s *Server) calculators() present.Calculators {
	return present.Calculators{Internal: s.cfg.CalculatorURL, XI: s.cfg.XICalculatorURL}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
