package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kycpay-web/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookie names the cookie carrying the opaque session id.
const SessionCookie = "session_id"

// SessionLoader is the part of the session store the gate needs.
type SessionLoader interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// RequireSession redirects to the login page unless the request carries a live
// session. The session is stored on the request context for the handler.
func RequireSession(store SessionLoader, secureCookie bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := LoadSession(r, store)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
					logger.Error("failed to load session", zap.String("path", r.URL.Path), zap.Error(err))
				}
				ClearSessionCookie(w, secureCookie)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadSession reads the session cookie and opens the session it names.
func LoadSession(r *http.Request, store SessionLoader) (*session.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, session.ErrNotFound
	}
	return store.Get(r.Context(), cookie.Value)
}

func GetSessionFromContext(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(sessionContextKey).(*session.Session); ok {
		return sess
	}
	return nil
}

func SetSessionCookie(w http.ResponseWriter, sess *session.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
