package di

import (
	"testing"

	internalrepo "SignalBoard/internal/repository"
	"SignalBoard/internal/services/draft"
	"SignalBoard/pkg/config"
	applogger "SignalBoard/pkg/logger"
)

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("environment: test\nstore:\n  type: sqlite\nsqlite:\n  path: \":memory:\"\n" + extra))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestSnapshotSourceReusesStore(t *testing.T) {
	cfg := testConfig(t, "")
	l := applogger.Nop()

	store, cleanup, err := ProvideConfigStore(cfg, l)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer cleanup()

	src, srcCleanup, err := ProvideSnapshotSource(cfg, store, l)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	defer srcCleanup()

	s, ok := src.(*internalrepo.SQLiteStore)
	if !ok || s != store.(*internalrepo.SQLiteStore) {
		t.Fatalf("expected the config store to be reused, got %T", src)
	}
}

func TestSheetSourceIsSeparate(t *testing.T) {
	cfg := testConfig(t, "snapshots:\n  source: sheet\nsheet:\n  csv_url: http://127.0.0.1:1/export.csv\n")
	l := applogger.Nop()

	store, cleanup, err := ProvideConfigStore(cfg, l)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer cleanup()

	src, srcCleanup, err := ProvideSnapshotSource(cfg, store, l)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	defer srcCleanup()
	if _, ok := src.(*internalrepo.SheetSnapshotSource); !ok {
		t.Fatalf("expected sheet source, got %T", src)
	}
}

func TestEventPublisherDisabled(t *testing.T) {
	pub, cleanup, err := ProvideEventPublisher(testConfig(t, ""), applogger.Nop())
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer cleanup()
	if _, ok := pub.(internalrepo.NopPublisher); !ok {
		t.Fatalf("expected no-op publisher, got %T", pub)
	}
}

func TestDescriptionsOverrideDefaults(t *testing.T) {
	cfg := testConfig(t, "strategy:\n  descriptions:\n    MA_SHORT_DAYS: custom\n    EXTRA: extra\n")
	got := descriptions(cfg)

	if got["MA_SHORT_DAYS"] != "custom" || got["EXTRA"] != "extra" {
		t.Fatalf("configured descriptions not applied: %v", got)
	}
	for k, v := range draft.DefaultDescriptions {
		if k == "MA_SHORT_DAYS" {
			continue
		}
		if got[k] != v {
			t.Errorf("default for %s lost: %q", k, got[k])
		}
	}
}
