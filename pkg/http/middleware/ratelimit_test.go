package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLimiterRefills(t *testing.T) {
	l := NewLimiter(2, 1)
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("burst of 2 should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third call should be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("keys are independent")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("one token should have refilled")
	}
	if l.Allow("a") {
		t.Fatalf("only one token should have refilled")
	}

	now = now.Add(time.Hour)
	if !l.Allow("a") || !l.Allow("a") || l.Allow("a") {
		t.Fatalf("refill must cap at capacity")
	}
}

func TestLimiterDropsRefilledBuckets(t *testing.T) {
	l := NewLimiter(2, 1)
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d:/api/save_strategy", i))
	}
	l.Allow("busy")
	l.Allow("busy")
	if l.Len() != 101 {
		t.Fatalf("expected 101 buckets, got %d", l.Len())
	}

	// Every bucket has refilled by the next sweep; only the key drawn
	// after it is tracked again.
	now = now.Add(sweepInterval)
	l.Allow("busy")
	l.Allow("busy")
	l.Allow("busy")
	if l.Len() != 1 {
		t.Fatalf("expected only the busy bucket, got %d", l.Len())
	}
	if l.Allow("busy") {
		t.Fatalf("a kept bucket must keep its drained state")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	e.POST("/save", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimit(NewLimiter(1, 0)))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/save", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}
