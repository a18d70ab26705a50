package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/id", func(c echo.Context) error {
		return c.String(http.StatusOK, RequestIDFrom(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Body.String() != "abc-123" || rec.Header().Get(echo.HeaderXRequestID) != "abc-123" {
		t.Fatalf("expected propagated id, got body=%q header=%q", rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	if id := rec.Body.String(); len(id) != 36 || rec.Header().Get(echo.HeaderXRequestID) != id {
		t.Fatalf("expected generated uuid, got %q", id)
	}
}
