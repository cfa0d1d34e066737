package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/magic-villa-api/internal/handler"
	"github.com/iliyamo/magic-villa-api/internal/metrics"
	"github.com/iliyamo/magic-villa-api/internal/middleware"
	"github.com/iliyamo/magic-villa-api/internal/model"
	"github.com/iliyamo/magic-villa-api/internal/repository"
	"github.com/iliyamo/magic-villa-api/internal/service"
	"github.com/iliyamo/magic-villa-api/internal/utils"
)

// emptyStore holds no villas.
type emptyStore struct{}

func (emptyStore) List(context.Context) ([]model.Villa, error) { return nil, nil }
func (emptyStore) GetByID(context.Context, int64) (*model.Villa, error) {
	return nil, repository.ErrVillaNotFound
}
func (emptyStore) NombreExists(context.Context, string, int64) (bool, error) { return false, nil }
func (emptyStore) Create(_ context.Context, v *model.Villa) error            { v.ID = 3; return nil }
func (emptyStore) Update(context.Context, *model.Villa) error                { return repository.ErrVillaNotFound }
func (emptyStore) Delete(context.Context, int64) error                       { return repository.ErrVillaNotFound }

func newServer(writeMW ...echo.MiddlewareFunc) *echo.Echo {
	m := metrics.New("test")
	e := echo.New()
	RegisterRoutes(e, m.Handler())
	RegisterVilla(e, handler.NewVillaHandler(service.NewVillaService(emptyStore{}, nil), m), writeMW...)
	return e
}

func request(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestOperationalRoutes(t *testing.T) {
	e := newServer()
	if rec := request(e, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	if rec := request(e, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Errorf("metrics: %d", rec.Code)
	}
}

func TestGetVillaRouteIsNamed(t *testing.T) {
	e := newServer()
	if got := e.Reverse(handler.GetVillaRoute, 3); got != "/api/villa/3" {
		t.Errorf("Reverse = %q", got)
	}
}

func TestWritesRequireToken(t *testing.T) {
	const secret = "s3cret"
	e := newServer(middleware.JWTAuth(secret), middleware.RequireRole("admin"))
	body := `{"nombre":"Villa Nueva","imagenUrl":"nueva.png","tarifa":150,"ocupantes":4,"metrosCuadrados":40}`

	if rec := request(e, http.MethodGet, "/api/villa", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("public read: %d", rec.Code)
	}
	if rec := request(e, http.MethodPost, "/api/villa", body, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("write without token: %d", rec.Code)
	}
	if rec := request(e, http.MethodDelete, "/api/villa/3", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("delete without token: %d", rec.Code)
	}

	tok, err := utils.NewAccessToken(secret, "ops", "admin", 5)
	if err != nil {
		t.Fatal(err)
	}
	rec := request(e, http.MethodPost, "/api/villa", body, tok.Token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("write with token: %d %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/api/villa/3" {
		t.Errorf("Location = %q", loc)
	}
}
