package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := New("magicvilla")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/villa/:id", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/villa/7", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/villa/:id", "404"))
	if got != 3 {
		t.Errorf("expected 3 requests, got %v", got)
	}
}

func TestHandlerExposesOperations(t *testing.T) {
	m := New("magicvilla")
	m.RecordOperation("create", "ok")
	m.RecordOperation("create", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `magicvilla_villa_operations_total{operation="create",outcome="ok"} 2`) {
		t.Errorf("operation counter missing from exposition:\n%s", body)
	}
}
