package middleware

import (
	"net/http"

	"solardash/internal/infrastructure"
	"solardash/internal/session"
)

// SessionConfig names the session cookie
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     int
}

// Session makes sure every browser carries a session id cookie and puts the
// id on the request context. Ids that do not look like session ids are
// replaced.
func Session(config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(config.CookieName); err == nil && session.ValidID(cookie.Value) {
				id = cookie.Value
			}

			if id == "" {
				id = session.NewID()
			}
			// Refreshed on every request so the cookie slides with the store TTL
			http.SetCookie(w, &http.Cookie{
				Name:     config.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   config.MaxAge,
				HttpOnly: true,
				Secure:   config.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := infrastructure.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
