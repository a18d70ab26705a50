package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"

	"github.com/gorilla/websocket"
)

func TestStreamPushesBoard(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{rows: snapshotRows()}, nil)
	srv := httptest.NewServer(f.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/signals"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First frame arrives on connect, the second on the next tick.
	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var board models.Board
		if err := conn.ReadJSON(&board); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if board.Total != 3 || board.Rows[0].Stock != "2303" {
			t.Fatalf("frame %d: unexpected board %+v", i, board)
		}
	}
}

func TestStreamRejectsPlainRequest(t *testing.T) {
	f := newFixture(t, &stubStore{}, &stubSource{}, nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/signals", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from failed upgrade, got %d", rec.Code)
	}
}
