package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	"SignalBoard/internal/usecase"
	xhttp "SignalBoard/pkg/http"
	"SignalBoard/pkg/http/middleware"
	xlogger "SignalBoard/pkg/logger"
	"SignalBoard/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type stubStore struct {
	mu       sync.Mutex
	raw      *models.RawConfigPayload
	fetchErr error
	saveErr  error
	stocks   []models.WireStock
	strategy models.StrategyMapping
}

func (s *stubStore) FetchConfig(context.Context) (*models.RawConfigPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw, s.fetchErr
}

func (s *stubStore) SaveWatchlist(_ context.Context, stocks []models.WireStock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = stocks
	return s.saveErr
}

func (s *stubStore) SaveStrategy(_ context.Context, m models.StrategyMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategy = m
	return s.saveErr
}

func (s *stubStore) Close() error { return nil }

type stubSource struct {
	rows []models.SnapshotRow
	err  error
}

func (s *stubSource) FetchSnapshots(context.Context) ([]models.SnapshotRow, error) {
	return s.rows, s.err
}

func (s *stubSource) Close() error { return nil }

var errDown = errors.New("dial tcp: connection refused")

const configJSON = `{
	"stock_list": [
		{"Stock":"2330","Name":"台積電","Enabled":"TRUE","Memo":""},
		{"Stock":2317,"Name":"鴻海","Enabled":false,"Memo":"watch"}
	],
	"strategy": [{"Parameter":"MA_SHORT_DAYS","Value":10,"Description":""}]
}`

func payload(t *testing.T, s string) *models.RawConfigPayload {
	t.Helper()
	var raw models.RawConfigPayload
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return &raw
}

func snapshotRows() []models.SnapshotRow {
	return []models.SnapshotRow{
		{StockCode: "2330", Date: "2024-01-02", Signal: "🟡", Price: 590},
		{StockCode: "2330", Date: "2024-01-03", Signal: "🟢", Price: 600},
		{StockCode: "2317", Date: "2024-01-03", Signal: "🔴", Price: 105},
		{StockCode: "2303", Date: "2024-01-03", Signal: "🟡", Price: 50},
	}
}

type fixture struct {
	e     *echo.Echo
	store *stubStore
}

func newFixture(t *testing.T, store *stubStore, source *stubSource, limiter *middleware.Limiter) *fixture {
	t.Helper()
	l := xlogger.Nop()
	m := metrics.Nop{}

	cfgUC := usecase.NewConfigUseCase(store, nil, nil, m, l, usecase.WithTTL(0))
	boardUC := usecase.NewBoardUseCase(source, nil, m, l, usecase.WithTTL(0))
	dash := usecase.NewDashboardUseCase(cfgUC, boardUC)

	e := echo.New()
	xhttp.Handlers{
		NewConfigEchoHandler(l, cfgUC, limiter),
		NewSignalsEchoHandler(l, boardUC, dash),
		NewStreamHandler(l, boardUC, 20*time.Millisecond, time.Second),
	}.RegisterRoutes(e)
	return &fixture{e: e, store: store}
}

func (f *fixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func decodeData(t *testing.T, resp xhttp.APIResponse, dest interface{}) {
	t.Helper()
	b, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-encode data: %v", err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		t.Fatalf("decode data %s: %v", b, err)
	}
}

func TestGetConfig(t *testing.T) {
	f := newFixture(t, &stubStore{raw: payload(t, configJSON)}, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK || resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderCacheControl); got != "no-store" {
		t.Errorf("expected no-store, got %q", got)
	}

	var view struct {
		StockList []struct {
			Stock   string      `json:"Stock"`
			Enabled interface{} `json:"Enabled"`
		} `json:"stock_list"`
		Strategy []struct {
			Parameter   string  `json:"Parameter"`
			Value       float64 `json:"Value"`
			Description string  `json:"Description"`
		} `json:"strategy"`
	}
	decodeData(t, resp, &view)
	if len(view.StockList) != 2 || view.StockList[1].Stock != "2317" {
		t.Fatalf("unexpected stock list %+v", view.StockList)
	}
	if len(view.Strategy) != 1 || view.Strategy[0].Parameter != "MA_SHORT_DAYS" || view.Strategy[0].Value != 10 {
		t.Fatalf("unexpected strategy %+v", view.Strategy)
	}
}

func TestGetConfigUnavailable(t *testing.T) {
	store := &stubStore{fetchErr: fmt.Errorf("%w: %w", domrepo.ErrBackendUnavailable, errDown)}
	f := newFixture(t, store, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if resp.Message != models.AdvisoryBackendUnavailable {
		t.Fatalf("expected advisory message, got %q", resp.Message)
	}
}

func TestEnabledStocks(t *testing.T) {
	f := newFixture(t, &stubStore{raw: payload(t, configJSON)}, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/stocks/enabled", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Rows  []string `json:"rows"`
		Total int      `json:"total"`
	}
	decodeData(t, resp, &list)
	if list.Total != 1 || len(list.Rows) != 1 || list.Rows[0] != "2330" {
		t.Fatalf("unexpected enabled list %+v", list)
	}
}

func TestSaveStockList(t *testing.T) {
	store := &stubStore{raw: payload(t, configJSON)}
	f := newFixture(t, store, &stubSource{}, nil)

	body := `[{"Stock":"2330","Name":"台積電","Enabled":true,"Memo":""},{"Stock":"2454","Name":"","Enabled":"FALSE","Memo":"new"}]`
	rec, resp := f.do(t, http.MethodPost, "/api/save_stock_list", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Message != models.MessageWatchlistSaved {
		t.Errorf("unexpected message %q", resp.Message)
	}
	var res models.SaveResult
	decodeData(t, resp, &res)
	if res.Status != "success" || res.Count != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(store.stocks) != 2 || store.stocks[1].Stock != "2454" {
		t.Fatalf("unexpected saved stocks %+v", store.stocks)
	}
}

func TestSaveStockListValidation(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not an array", `{"Stock":"2330"}`},
		{"memo too long", `[{"Stock":"2330","Memo":"` + strings.Repeat("x", 513) + `"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := f.do(t, http.MethodPost, "/api/save_stock_list", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSaveStrategy(t *testing.T) {
	store := &stubStore{}
	f := newFixture(t, store, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodPost, "/api/save_strategy", `{"config":{"MA_SHORT_DAYS":5,"MODE":"fast"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Message != models.MessageStrategySaved {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if keys := store.strategy.Keys(); len(keys) != 2 || keys[0] != "MA_SHORT_DAYS" || keys[1] != "MODE" {
		t.Fatalf("unexpected saved keys %v", keys)
	}
}

func TestSaveStrategyMissingConfig(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodPost, "/api/save_strategy", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errs []xhttp.ValidationError
	decodeData(t, resp, &errs)
	if len(errs) != 1 || errs[0].Field != "config" || errs[0].Code != "ERR_REQUIRED" {
		t.Fatalf("unexpected validation errors %+v", errs)
	}
}

func TestSaveFailedIsBadGateway(t *testing.T) {
	store := &stubStore{saveErr: fmt.Errorf("%w: status error", domrepo.ErrSaveFailed)}
	f := newFixture(t, store, &stubSource{}, nil)

	rec, resp := f.do(t, http.MethodPost, "/api/save_strategy", `{"config":{"A":1}}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if resp.Message != models.AdvisorySaveFailed {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestSaveRateLimited(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{}, middleware.NewLimiter(1, 0))

	if rec, _ := f.do(t, http.MethodPost, "/api/save_strategy", `{"config":{"A":1}}`); rec.Code != http.StatusOK {
		t.Fatalf("first save: expected 200, got %d", rec.Code)
	}
	if rec, _ := f.do(t, http.MethodPost, "/api/save_strategy", `{"config":{"A":1}}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second save: expected 429, got %d", rec.Code)
	}
}

func TestSignals(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{rows: snapshotRows()}, nil)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantRows  int
		wantTotal int
	}{
		{"all", "", http.StatusOK, 3, 3},
		{"hold", "?signal=hold", http.StatusOK, 1, 1},
		{"limit", "?limit=2", http.StatusOK, 2, 3},
		{"bad signal", "?signal=maybe", http.StatusBadRequest, 0, 0},
		{"limit too large", "?limit=9999", http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := f.do(t, http.MethodGet, "/api/signals"+tt.query, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var board models.Board
			decodeData(t, resp, &board)
			if len(board.Rows) != tt.wantRows || board.Total != tt.wantTotal {
				t.Fatalf("got %d rows / total %d", len(board.Rows), board.Total)
			}
		})
	}
}

func TestSignalsSourceDownStillOK(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{err: errDown}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/signals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var board models.Board
	decodeData(t, resp, &board)
	if board.Advisory != models.AdvisoryNoSnapshots || board.Total != 0 {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestSummary(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{rows: snapshotRows()}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/signals/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var sum models.SignalSummary
	decodeData(t, resp, &sum)
	if sum.Buy != 1 || sum.Hold != 1 || sum.Sell != 1 || sum.Total != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestDashboardDegraded(t *testing.T) {
	f := newFixture(t, &stubStore{fetchErr: errDown}, &stubSource{rows: snapshotRows()}, nil)

	rec, resp := f.do(t, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view struct {
		Config     *json.RawMessage `json:"config"`
		Board      models.Board     `json:"board"`
		Advisories []string         `json:"advisories"`
	}
	decodeData(t, resp, &view)
	if view.Config != nil {
		t.Fatalf("expected no config, got %s", *view.Config)
	}
	if view.Board.Total != 3 {
		t.Fatalf("expected board with 3 rows, got %d", view.Board.Total)
	}
	if len(view.Advisories) != 1 || view.Advisories[0] != models.AdvisoryBackendUnavailable {
		t.Fatalf("unexpected advisories %v", view.Advisories)
	}
}
