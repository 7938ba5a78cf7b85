package handlers

import (
	"net/http"
	"time"

	"github.com/cafewifi/webapp/internal/forms"
	"github.com/cafewifi/webapp/internal/middleware"
	"github.com/cafewifi/webapp/web"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger    *zap.Logger
	Templates *web.Templates
}

// Render executes the named page template with the shared chrome filled in:
// current identity, pending flash message, CSRF token and current year.
// Handler-provided keys win over the defaults.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = PopFlash(w, r)
	}
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		data["CurrentUser"] = user
	}
	data["CSRFToken"] = middleware.CSRFToken(r.Context())
	data["CurrentYear"] = time.Now().Year()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := h.Templates.Render(w, page, data); err != nil {
		h.Logger.Error("failed to render template", zap.String("page", page), zap.Error(err))
	}
}

// RenderError sends a minimal error page without touching the template set
func (h *BaseHandler) RenderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte("<!DOCTYPE html><html><body><h1>" + http.StatusText(status) + "</h1><p>" + message + "</p></body></html>"))
}
