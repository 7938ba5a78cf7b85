package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cafewifi/webapp/internal/forms"
	"github.com/cafewifi/webapp/internal/middleware"
	"github.com/cafewifi/webapp/internal/services"
	"github.com/cafewifi/webapp/web"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Flash messages shown on the auth flows
const (
	flashEmailTaken = "The email you entered has already been registered. Try logging in."
	flashBadLogin   = "Please check your login details and try again."
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates a user account and opens a session for it.
	//
	// "email", "password" and "name" are the already-validated form fields.
	//
	// Returns the signed session cookie value, services.ErrEmailTaken when
	// the email already has an account, or another error for storage failures.
	Register(ctx context.Context, email, password, name string) (string, error)
	// Method Login authenticates a user and opens a session for it.
	//
	// Returns the signed session cookie value, or services.ErrInvalidCredentials
	// for an unknown email and a wrong password alike.
	Login(ctx context.Context, email, password string) (string, error)
	// Method Logout ends the session named by the cookie value.
	Logout(ctx context.Context, cookieValue string) error
}

// AuthHandler handles the register, login and logout pages
type AuthHandler struct {
	BaseHandler
	authService   AuthService
	sessionExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, templates *web.Templates, logger *zap.Logger, sessionExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger, Templates: templates},
		authService:   authService,
		sessionExpiry: sessionExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "register", nil)
}

// Register handles POST /register.
// Field errors re-render the form inline; a taken email flashes and sends
// the visitor to the login page; success opens a session and redirects home.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseRegisterForm(r)
	if errs := form.Validate(); len(errs) > 0 {
		h.Render(w, r, http.StatusOK, "register", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	cookieValue, err := h.authService.Register(r.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			SetFlash(w, flashEmailTaken)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h.Logger.Error("failed to register user", zap.Error(err))
		h.RenderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	h.setSessionCookie(w, cookieValue)
	http.Redirect(w, r, "/", http.StatusFound)
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "login", nil)
}

// Login handles POST /login.
// Bad credentials redisplay the form with one generic message regardless
// of whether the email exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseLoginForm(r)
	if errs := form.Validate(); len(errs) > 0 {
		h.Render(w, r, http.StatusOK, "login", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	cookieValue, err := h.authService.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.Render(w, r, http.StatusOK, "login", map[string]any{
				"Form":  form,
				"Flash": flashBadLogin,
			})
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RenderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	h.setSessionCookie(w, cookieValue)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.Logger.Error("failed to end session", zap.Error(err))
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// setSessionCookie stores the signed session token as an HTTP-only cookie
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
