package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"SignalBoard/internal/di"
	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/domain/repository"
	"SignalBoard/internal/services/draft"
	"SignalBoard/pkg/config"
	applogger "SignalBoard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	force := flag.Bool("force", false, "overwrite an existing watchlist")
	snapshots := flag.String("snapshots", "", "JSON file of analysis rows to import (postgres/sqlite stores only)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	l, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	store, cleanup, err := di.ProvideConfigStore(cfg, l)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seedConfig(ctx, store, *force, l); err != nil {
		l.Error("seed config failed", applogger.Error(err))
		os.Exit(1)
	}
	if *snapshots != "" {
		if err := importSnapshots(ctx, store, *snapshots, l); err != nil {
			l.Error("import snapshots failed", applogger.Error(err))
			os.Exit(1)
		}
	}
}

func seedConfig(ctx context.Context, store repository.ConfigStore, force bool, l *applogger.Logger) error {
	raw, err := store.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("fetch config: %w", err)
	}
	if len(raw.StockList) > 0 && !force {
		l.Info("watchlist already present, skipping seed", applogger.Int("stocks", len(raw.StockList)))
		return nil
	}

	d := draft.Seed()
	if err := store.SaveWatchlist(ctx, d.StockList()); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	if err := store.SaveStrategy(ctx, d.Mapping()); err != nil {
		return fmt.Errorf("save strategy: %w", err)
	}
	l.Info("seed complete",
		applogger.Int("stocks", len(d.Watchlist)),
		applogger.Int("params", len(d.Strategy)),
	)
	return nil
}

func importSnapshots(ctx context.Context, store repository.ConfigStore, path string, l *applogger.Logger) error {
	w, ok := store.(repository.SnapshotWriter)
	if !ok {
		return fmt.Errorf("store %T cannot import analysis rows", store)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var rows []models.SnapshotRow
	if err := json.Unmarshal(b, &rows); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := w.InsertSnapshots(ctx, rows); err != nil {
		return err
	}
	l.Info("snapshots imported", applogger.Int("rows", len(rows)), applogger.String("file", path))
	return nil
}
