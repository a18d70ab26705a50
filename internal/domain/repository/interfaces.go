package repository

import (
	"context"

	"SignalBoard/internal/domain/models"
)

// ConfigStore loads and persists the watchlist and strategy parameters.
// Saves are wholesale: the passed collection replaces or updates the stored
// one in a single all-or-nothing operation.
type ConfigStore interface {
	FetchConfig(ctx context.Context) (*models.RawConfigPayload, error)
	SaveWatchlist(ctx context.Context, stocks []models.WireStock) error
	SaveStrategy(ctx context.Context, config models.StrategyMapping) error
	Close() error
}

// SnapshotSource supplies time-stamped analysis rows, preferably ordered by
// (stock_code asc, date desc). Callers must not rely on the ordering.
type SnapshotSource interface {
	FetchSnapshots(ctx context.Context) ([]models.SnapshotRow, error)
	Close() error
}

// SnapshotWriter loads analysis rows into a store, for seeding local data.
type SnapshotWriter interface {
	InsertSnapshots(ctx context.Context, rows []models.SnapshotRow) error
}

// EventPublisher announces configuration changes.
type EventPublisher interface {
	PublishConfigEvent(ctx context.Context, ev models.ConfigEvent) error
	Close() error
}

type Metrics interface {
	RecordConfigLoad(source, outcome string)
	RecordConfigSave(section, outcome string)
	RecordDegraded(section string)
	RecordBoardSize(n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
