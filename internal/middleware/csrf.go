package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"
)

const (
	csrfTokenKey contextKey = "csrfToken"

	// csrfCookieName is the cookie holding the per-visit nonce
	csrfCookieName = "csrf_nonce"
	// CSRFFieldName is the hidden form field the token travels back in
	CSRFFieldName = "csrf_token"
)

// CSRFMiddleware implements a double-submit check: a random nonce lives in
// a cookie, and every form embeds HMAC-SHA256(secret, nonce). A POST whose
// field does not match the HMAC of its own cookie is rejected before the
// handler runs.
func CSRFMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := ""
			if cookie, err := r.Cookie(csrfCookieName); err == nil {
				nonce = cookie.Value
			}

			if r.Method == http.MethodPost {
				if nonce == "" || !validCSRFToken(secret, nonce, r.PostFormValue(CSRFFieldName)) {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte("<!DOCTYPE html><html><body><h1>Bad Request</h1><p>Invalid or missing CSRF token.</p></body></html>"))
					return
				}
			}

			if nonce == "" {
				nonce = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    nonce,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			// Hand the expected token to the handlers so forms can embed it
			ctx := context.WithValue(r.Context(), csrfTokenKey, csrfToken(secret, nonce))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFToken returns the token the current request's forms must embed
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfTokenKey).(string); ok {
		return token
	}
	return ""
}

// csrfToken derives the form token from the cookie nonce
func csrfToken(secret, nonce string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// validCSRFToken compares the submitted field against the expected HMAC
// in constant time
func validCSRFToken(secret, nonce, submitted string) bool {
	return hmac.Equal([]byte(csrfToken(secret, nonce)), []byte(submitted))
}
