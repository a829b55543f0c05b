package middleware

import (
	"context"
	"net/http"
	"time"

	"personal-task-manager/logging"
	"personal-task-manager/services"
)

const SessionCookieName = "session"

type contextKey string

const sessionKey contextKey = "session"

// SessionFromContext returns the session attached by RequireSession or LoadSession.
func SessionFromContext(ctx context.Context) (*services.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*services.Session)
	return s, ok && s != nil
}

func WithSession(ctx context.Context, s *services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SetSessionCookie stores token in the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// LoadSession attaches the session to the request context when the cookie carries a valid token.
// Requests without one pass through unchanged.
func LoadSession(sessions *services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := SessionToken(r); token != "" {
				if session, err := sessions.Validate(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), session))
				} else {
					logging.Logger.Debugf("Event ID: SESSION_INVALID, Description: Ignoring session cookie for %s %s: %v", r.Method, r.URL.Path, err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession redirects to /login unless LoadSession attached a session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			logging.Logger.Debugf("Event ID: SESSION_REQUIRED, Description: No session for %s %s, redirecting to login", r.Method, r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
