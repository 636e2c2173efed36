package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tradecheck/internal/i18n"
	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxLang
	ctxCSRF
)

// Header and cookie names.
const (
	headerRequestID = "X-Request-Id"
	cookieLang      = "lang"
	cookieCSRF      = "csrf_token"
	formCSRF        = "_csrf"
	langCookieAge   = 365 * 24 * time.Hour
)

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

func langFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxLang).(string); ok {
		return lang
	}
	return i18n.DefaultLang
}

func csrfFrom(ctx context.Context) string {
	tok, _ := ctx.Value(ctxCSRF).(string)
	return tok
}

// requestID tags each request with an id, reusing the caller's when sent.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestID, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("id", requestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic",
					zap.String("id", requestIDFrom(r.Context())),
					zap.Any("panic", rec),
					zap.Stack("stack"))
				s.renderError(w, r, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// negotiateLanguage picks the page language. An explicit lang parameter
// is remembered in a cookie.
func (s *Server) negotiateLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := r.URL.Query().Get(types.FieldLang)
		var cookie string
		if c, err := r.Cookie(cookieLang); err == nil {
			cookie = c.Value
		}
		lang := s.catalog.Negotiate(param, cookie, r.Header.Get("Accept-Language"))
		if param != "" && param == lang && cookie != lang {
			http.SetCookie(w, &http.Cookie{
				Name:     cookieLang,
				Value:    lang,
				Path:     "/",
				MaxAge:   int(langCookieAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxLang, lang)))
	})
}

// csrf implements the double-submit cookie check. Every response carries
// a token cookie; a POST must echo it in the _csrf form field.
func (s *Server) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(cookieCSRF); err == nil && c.Value != "" {
			token = c.Value
		}

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil || token == "" ||
				subtle.ConstantTimeCompare([]byte(r.PostForm.Get(formCSRF)), []byte(token)) != 1 {
				s.logger.Info("csrf token mismatch", zap.String("id", requestIDFrom(r.Context())))
				s.renderSessionExpired(w, r)
				return
			}
		}

		if token == "" {
			token = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieCSRF,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxCSRF, token)))
	})
}
