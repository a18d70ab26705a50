package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordConfigLoad("sqlite", "ok")
	r.RecordConfigLoad("sqlite", "ok")
	r.RecordConfigSave("watchlist", "error")
	r.RecordDegraded("strategy")
	r.RecordBoardSize(42)
	r.RecordError("snapshot_fetch")
	r.RecordLatency("snapshot_fetch", 0.2)

	if got := testutil.ToFloat64(r.configLoads.WithLabelValues("sqlite", "ok")); got != 2 {
		t.Errorf("config loads: got %v", got)
	}
	if got := testutil.ToFloat64(r.configSaves.WithLabelValues("watchlist", "error")); got != 1 {
		t.Errorf("config saves: got %v", got)
	}
	if got := testutil.ToFloat64(r.boardSize); got != 42 {
		t.Errorf("board size: got %v", got)
	}
	if n := testutil.CollectAndCount(r.latency); n != 1 {
		t.Errorf("latency series: got %d", n)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 6 {
		t.Fatalf("expected 6 metric families, got %d", len(mfs))
	}
}
