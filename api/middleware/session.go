package middleware

import (
	"net/http"
	"time"

	"github.com/pgkim42/book-bean-frontend-sub000/api/responses"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/storefront"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

// SessionOpener resolves a session ID to a live session, creating one if needed.
type SessionOpener interface {
	Open(id string) (*storefront.Session, bool, error)
}

// Session resolves the shopper session from its cookie. A cookie is issued
// with the response when the session was created or its ID changed while the
// request ran, as it does on login.
func Session(registry SessionOpener, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if registry == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
				return
			}

			requested := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				requested = cookie.Value
			}

			session, created, err := registry.Open(requested)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			issued := requested
			if created {
				issued = ""
			}
			cw := &sessionCookieWriter{ResponseWriter: w, session: session, cfg: cfg, issued: issued}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, session.ID())
				if status := session.Status(); status.Authenticated {
					ctx = logg.WithUserID(ctx, status.UserID)
				}
			}
			next.ServeHTTP(cw, r.WithContext(WithSession(ctx, session)))
		})
	}
}

func sessionCookie(cfg config.SessionConfig, id string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.CookieMaxAge > 0 {
		cookie.MaxAge = int(cfg.CookieMaxAge / time.Second)
	}
	return cookie
}

type sessionCookieWriter struct {
	http.ResponseWriter
	session *storefront.Session
	cfg     config.SessionConfig
	issued  string
	done    bool
}

func (w *sessionCookieWriter) WriteHeader(code int) {
	w.issue()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionCookieWriter) Write(b []byte) (int, error) {
	w.issue()
	return w.ResponseWriter.Write(b)
}

func (w *sessionCookieWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *sessionCookieWriter) issue() {
	if w.done {
		return
	}
	w.done = true
	if id := w.session.ID(); id != w.issued {
		http.SetCookie(w.ResponseWriter, sessionCookie(w.cfg, id))
	}
}
