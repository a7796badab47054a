package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Session is the authenticated caller. A nil *Session means the caller is anonymous.
type Session struct {
	UserID   string
	Username string
}

// Verifier turns a raw session token into a Session.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

type contextKey string

const sessionKey = contextKey("session")

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the caller's session, or nil for anonymous requests.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey).(*Session)
	return session
}

// Middleware resolves the caller's session from the Authorization header or, failing that,
// the session cookie. Requests without a token pass through anonymously. A malformed or
// rejected bearer token is a 401; a stale cookie is ignored so public pages keep working.
func Middleware(verifier Verifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				if !strings.HasPrefix(header, "Bearer ") {
					unauthorized(w, "Invalid token format")
					return
				}
				session, err := verifier.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					log.Warn().Err(err).Msg("Rejected bearer token")
					unauthorized(w, "Invalid or expired token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
				return
			}

			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				session, err := verifier.Verify(r.Context(), cookie.Value)
				if err != nil {
					log.Debug().Err(err).Msg("Ignoring invalid session cookie")
				} else {
					r = r.WithContext(WithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			unauthorized(w, "Sign in to continue")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
