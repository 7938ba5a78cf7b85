package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cafewifi/webapp/internal/middleware"
	"github.com/cafewifi/webapp/internal/models"
	"github.com/cafewifi/webapp/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockCafeService is a function-backed CafeService for handler tests
type mockCafeService struct {
	listFunc func(ctx context.Context) ([]models.Cafe, error)
	addFunc  func(ctx context.Context, cafe *models.Cafe) error
}

func (m *mockCafeService) List(ctx context.Context) ([]models.Cafe, error) {
	return m.listFunc(ctx)
}

func (m *mockCafeService) Add(ctx context.Context, cafe *models.Cafe) error {
	return m.addFunc(ctx, cafe)
}

// stubSessionReader resolves any session cookie to a fixed user
type stubSessionReader struct {
	user *models.User
}

func (s *stubSessionReader) UserFromSession(ctx context.Context, cookieValue string) (*models.User, error) {
	if s.user == nil {
		return nil, errors.New("no session")
	}
	return s.user, nil
}

// newCafeTestRouter mounts the cafe routes behind the identity middleware,
// the way the server wires them
func newCafeTestRouter(t *testing.T, service *mockCafeService, user *models.User) chi.Router {
	t.Helper()
	handler := NewCafeHandler(service, newTestTemplates(t), zap.NewNop())

	r := chi.NewRouter()
	r.Use(middleware.LoadUserMiddleware(&stubSessionReader{user: user}))
	handler.RegisterRoutes(r, middleware.RequireUserMiddleware)
	return r
}

// sessionRequest attaches a session cookie so the stub reader resolves a user
func sessionRequest(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "signed-token"})
	return r
}

func TestCafeHandler_Home(t *testing.T) {
	t.Run("lists every cafe with a running count", func(t *testing.T) {
		service := &mockCafeService{
			listFunc: func(ctx context.Context) ([]models.Cafe, error) {
				return []models.Cafe{
					{ID: 1, Name: "Central Perk", Location: "Manhattan", HasWifi: true, CoffeePrice: "$3.50"},
					{ID: 2, Name: "Mocha House", Location: "Brooklyn"},
				}, nil
			},
		}
		router := newCafeTestRouter(t, service, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "All Cafes")
		assert.Contains(t, body, "Central Perk")
		assert.Contains(t, body, "Mocha House")
		assert.Contains(t, body, "2 listed")
	})

	t.Run("empty directory invites the first contribution", func(t *testing.T) {
		service := &mockCafeService{
			listFunc: func(ctx context.Context) ([]models.Cafe, error) {
				return []models.Cafe{}, nil
			},
		}
		router := newCafeTestRouter(t, service, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "0 listed")
		assert.Contains(t, body, "No cafes yet.")
	})

	t.Run("listing failure renders 500", func(t *testing.T) {
		service := &mockCafeService{
			listFunc: func(ctx context.Context) ([]models.Cafe, error) {
				return nil, errors.New("database error")
			},
		}
		router := newCafeTestRouter(t, service, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCafeHandler_AddCafeRequiresLogin(t *testing.T) {
	service := &mockCafeService{
		addFunc: func(ctx context.Context, cafe *models.Cafe) error {
			t.Fatal("service must not run for anonymous requests")
			return nil
		},
	}
	router := newCafeTestRouter(t, service, nil)

	t.Run("GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add-cafe", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, postFormRequest(t, "/add-cafe", url.Values{"name": {"Central Perk"}}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCafeHandler_AddCafePage(t *testing.T) {
	router := newCafeTestRouter(t, &mockCafeService{}, &models.User{ID: 5, Email: "known@example.com", Name: "Ada"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, sessionRequest(httptest.NewRequest(http.MethodGet, "/add-cafe", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Add a Cafe")
}

func TestCafeHandler_AddCafe(t *testing.T) {
	user := &models.User{ID: 5, Email: "known@example.com", Name: "Ada"}

	validForm := url.Values{
		"name":         {"Central Perk"},
		"map_url":      {"https://maps.example.com/central-perk"},
		"img_url":      {"https://img.example.com/central-perk.jpg"},
		"location":     {"Manhattan"},
		"seats":        {"20-30"},
		"has_wifi":     {"on"},
		"coffee_price": {"$3.50"},
	}

	t.Run("success flashes a thank-you and redirects home", func(t *testing.T) {
		var added *models.Cafe
		service := &mockCafeService{
			addFunc: func(ctx context.Context, cafe *models.Cafe) error {
				added = cafe
				return nil
			},
		}
		router := newCafeTestRouter(t, service, user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, sessionRequest(postFormRequest(t, "/add-cafe", validForm)))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, flashCafeThanks, flashMessage(t, w))

		if assert.NotNil(t, added) {
			assert.Equal(t, "Central Perk", added.Name)
			assert.True(t, added.HasWifi)
			assert.False(t, added.HasSockets)
			assert.Equal(t, "$3.50", added.CoffeePrice)
		}
	})

	t.Run("already listed cafe flashes and redirects home", func(t *testing.T) {
		service := &mockCafeService{
			addFunc: func(ctx context.Context, cafe *models.Cafe) error {
				return services.ErrCafeExists
			},
		}
		router := newCafeTestRouter(t, service, user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, sessionRequest(postFormRequest(t, "/add-cafe", validForm)))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, flashCafeExists, flashMessage(t, w))
	})

	t.Run("field errors re-render the form inline", func(t *testing.T) {
		service := &mockCafeService{
			addFunc: func(ctx context.Context, cafe *models.Cafe) error {
				t.Fatal("service must not run for an invalid form")
				return nil
			},
		}
		router := newCafeTestRouter(t, service, user)

		form := url.Values{}
		for key, values := range validForm {
			form[key] = values
		}
		form.Set("map_url", "not-a-url")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, sessionRequest(postFormRequest(t, "/add-cafe", form)))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Enter a valid URL.")
		assert.Contains(t, body, "Central Perk", "submitted values are preserved")
	})

	t.Run("storage failure renders 500", func(t *testing.T) {
		service := &mockCafeService{
			addFunc: func(ctx context.Context, cafe *models.Cafe) error {
				return errors.New("database error")
			},
		}
		router := newCafeTestRouter(t, service, user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, sessionRequest(postFormRequest(t, "/add-cafe", validForm)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
