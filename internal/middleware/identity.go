package middleware

import (
	"context"
	"net/http"

	"github.com/cafewifi/webapp/internal/models"
)

const currentUserKey contextKey = "currentUser"

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "cafe_session"

// SessionReader resolves a raw session cookie value to the user it belongs to
type SessionReader interface {
	// Method UserFromSession maps a session cookie value back to its user.
	//
	// An invalid, expired or logged-out session returns an error; callers
	// treat any error as "anonymous".
	UserFromSession(ctx context.Context, cookieValue string) (*models.User, error)
}

// LoadUserMiddleware resolves the session cookie into a request-scoped
// identity. Requests without a valid session proceed anonymously; handlers
// and templates read the identity from the context, never from shared state.
func LoadUserMiddleware(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.UserFromSession(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserMiddleware rejects requests that carry no authenticated
// identity with an explicit 403, before the handler runs
func RequireUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("<!DOCTYPE html><html><body><h1>Forbidden</h1></body></html>"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CurrentUser retrieves the authenticated user from context
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*models.User)
	return user, ok
}
