package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domrepo "SignalBoard/internal/domain/repository"
	pkghttp "SignalBoard/pkg/http"
)

const sheetCSV = "\ufeffStock,Name,Date,Close,Signal,Memo,K,D,RSI\n" +
	"2330,台積電,2024-01-03,600,🟢,突破,81.5,70.2,66\n" +
	"2317,鴻海,2024-01-03,105.5,,,,,\n" +
	",,2024-01-03,1,🟡,,,,\n" +
	"2454,聯發科,2024-01-02,900,🔴,123,n/a,,\n"

func TestParseSheetCSV(t *testing.T) {
	rows, err := ParseSheetCSV(strings.NewReader(sheetCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}

	r := rows[0]
	if r.StockCode != "2330" || r.Date != "2024-01-03" || r.Signal != "🟢" || r.Price != 600 {
		t.Errorf("unexpected row %+v", r)
	}
	if k, ok := r.Indicators.Number("K"); !ok || k != 81.5 {
		t.Errorf("expected K 81.5, got %v", r.Indicators["K"])
	}
	if memo, _ := r.Indicators.String("Memo"); memo != "突破" {
		t.Errorf("expected memo, got %v", r.Indicators["Memo"])
	}

	// Numeric-looking memo stays text; unparseable numbers stay as strings.
	r = rows[1]
	if memo, ok := r.Indicators.String("Memo"); !ok || memo != "123" {
		t.Errorf("expected text memo 123, got %#v", r.Indicators["Memo"])
	}
	if _, ok := r.Indicators.Number("K"); ok {
		t.Errorf("expected non-numeric K, got %#v", r.Indicators["K"])
	}
}

func TestParseSheetCSVEmpty(t *testing.T) {
	rows, err := ParseSheetCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestSheetSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sheetCSV))
	}))
	defer srv.Close()

	src := NewSheetSnapshotSource(pkghttp.NewClient(), srv.URL, nil)
	rows, err := src.FetchSnapshots(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestSheetSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewSheetSnapshotSource(pkghttp.NewClient(), srv.URL, nil)
	if _, err := src.FetchSnapshots(context.Background()); !errors.Is(err, domrepo.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
