package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cafewifi/webapp/internal/forms"
	"github.com/cafewifi/webapp/internal/models"
	"github.com/cafewifi/webapp/internal/services"
	"github.com/cafewifi/webapp/web"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Flash messages shown on the add-cafe flow
const (
	flashCafeExists = "This cafe has already been added."
	flashCafeThanks = "Thank you for your contribution."
)

// CafeService is the interface that wraps methods for the cafe directory business logic.
type CafeService interface {
	// Method List retrieves every cafe in insertion order.
	List(ctx context.Context) ([]models.Cafe, error)
	// Method Add inserts a cafe after its map URL uniqueness check.
	//
	// Returns services.ErrCafeExists when the cafe is already listed.
	Add(ctx context.Context, cafe *models.Cafe) error
}

// CafeHandler handles the listing page and the add-cafe form
type CafeHandler struct {
	BaseHandler
	cafeService CafeService
}

// NewCafeHandler creates a new cafe handler
func NewCafeHandler(cafeService CafeService, templates *web.Templates, logger *zap.Logger) *CafeHandler {
	return &CafeHandler{
		BaseHandler: BaseHandler{Logger: logger, Templates: templates},
		cafeService: cafeService,
	}
}

// RegisterRoutes registers the cafe routes; requireUser guards the
// add-cafe pages with an explicit 403 for anonymous visitors
func (h *CafeHandler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Get("/", h.Home)
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Get("/add-cafe", h.AddCafePage)
		r.Post("/add-cafe", h.AddCafe)
	})
}

// Home handles GET / and lists every cafe with a running count
func (h *CafeHandler) Home(w http.ResponseWriter, r *http.Request) {
	cafes, err := h.cafeService.List(r.Context())
	if err != nil {
		h.Logger.Error("failed to list cafes", zap.Error(err))
		h.RenderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	h.Render(w, r, http.StatusOK, "index", map[string]any{
		"Cafes":     cafes,
		"CafeCount": len(cafes),
	})
}

// AddCafePage handles GET /add-cafe
func (h *CafeHandler) AddCafePage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "add-cafe", nil)
}

// AddCafe handles POST /add-cafe.
// Field errors re-render the form inline; a duplicate map URL flashes and
// redirects home; success flashes a thank-you and redirects home.
func (h *CafeHandler) AddCafe(w http.ResponseWriter, r *http.Request) {
	form := forms.ParseAddCafeForm(r)
	if errs := form.Validate(); len(errs) > 0 {
		h.Render(w, r, http.StatusOK, "add-cafe", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	cafe := &models.Cafe{
		Name:         form.Name,
		MapURL:       form.MapURL,
		ImgURL:       form.ImgURL,
		Location:     form.Location,
		Seats:        form.Seats,
		HasWifi:      form.HasWifi,
		HasSockets:   form.HasSockets,
		HasToilet:    form.HasToilet,
		CanTakeCalls: form.CanTakeCalls,
		CoffeePrice:  form.CoffeePrice,
	}

	if err := h.cafeService.Add(r.Context(), cafe); err != nil {
		if errors.Is(err, services.ErrCafeExists) {
			SetFlash(w, flashCafeExists)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.Logger.Error("failed to add cafe", zap.Error(err))
		h.RenderError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	SetFlash(w, flashCafeThanks)
	http.Redirect(w, r, "/", http.StatusFound)
}
