package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	pkghttp "SignalBoard/pkg/http"
)

func newLegacyStore(t *testing.T, h http.HandlerFunc) *LegacyConfigStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewLegacyConfigStore(pkghttp.NewClient(pkghttp.WithBaseURL(srv.URL)), nil)
}

func TestLegacyFetchMappingForm(t *testing.T) {
	s := newLegacyStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"stock_list":[{"Stock":2330,"Name":"台積電","Enabled":"TRUE","Memo":""}],"strategy":{"MA_SHORT":5,"MODE":"fast"}}`))
	})

	raw, err := s.FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw.StockList) != 1 || raw.StockList[0].Stock != "2330" {
		t.Fatalf("unexpected stocks %+v", raw.StockList)
	}
	m, ok := raw.Strategy.(models.MappingForm)
	if !ok {
		t.Fatalf("expected MappingForm, got %T", raw.Strategy)
	}
	if keys := m.Entries.Keys(); len(keys) != 2 || keys[0] != "MA_SHORT" || keys[1] != "MODE" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestLegacyFetchMalformedSection(t *testing.T) {
	s := newLegacyStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stock_list":"oops","strategy":[{"Parameter":"A","Value":1,"Description":"a"}]}`))
	})

	raw, err := s.FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw.Malformed) != 1 || raw.Malformed[0] != models.SectionWatchlist {
		t.Fatalf("expected watchlist malformed, got %v", raw.Malformed)
	}
	if seq, ok := raw.Strategy.(models.SequenceForm); !ok || len(seq.Records) != 1 {
		t.Fatalf("strategy should survive, got %#v", raw.Strategy)
	}
}

func TestLegacyFetchUnavailable(t *testing.T) {
	s := newLegacyStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})
	if _, err := s.FetchConfig(context.Background()); !errors.Is(err, domrepo.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestLegacySaveWatchlist(t *testing.T) {
	var got []map[string]interface{}
	s := newLegacyStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/save_stock_list" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	err := s.SaveWatchlist(context.Background(), []models.WireStock{
		{Stock: "2330", Name: "台積電", Enabled: models.StringFlag("TRUE"), Memo: "m"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(got) != 1 || got[0]["Stock"] != "2330" || got[0]["Enabled"] != "TRUE" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestLegacySaveStrategy(t *testing.T) {
	var body string
	s := newLegacyStore(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	var m models.StrategyMapping
	m.Set("B", models.IntValue(2))
	m.Set("A", models.StringValue("x"))
	if err := s.SaveStrategy(context.Background(), m); err != nil {
		t.Fatalf("save: %v", err)
	}
	if want := `{"config":{"B":2,"A":"x"}}`; body != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}

func TestLegacySaveFailed(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"Failed to save stock list"}`, http.StatusInternalServerError)
		}},
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error"}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newLegacyStore(t, tt.h)
			err := s.SaveWatchlist(context.Background(), nil)
			if !errors.Is(err, domrepo.ErrSaveFailed) {
				t.Fatalf("expected ErrSaveFailed, got %v", err)
			}
		})
	}
}
