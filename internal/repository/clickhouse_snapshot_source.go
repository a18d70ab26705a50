package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	pkgch "SignalBoard/pkg/clickhouse"
	applogger "SignalBoard/pkg/logger"
)

// CHSnapshotSource reads analysis rows the scanner writes to ClickHouse.
type CHSnapshotSource struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
	cfg    storeConfig
}

// NewCHSnapshotSource creates a snapshot source over table.
func NewCHSnapshotSource(ch *pkgch.Client, table string, opts ...StoreOption) *CHSnapshotSource {
	return &CHSnapshotSource{client: ch, db: ch.DB(), table: table, cfg: newStoreConfig(opts)}
}

// FetchSnapshots returns the latest row per stock code, ordered by code.
func (s *CHSnapshotSource) FetchSnapshots(ctx context.Context) ([]models.SnapshotRow, error) {
	start := time.Now()
	var (
		q    strings.Builder
		args []interface{}
	)
	fmt.Fprintf(&q, `
        SELECT stock_code, toString(date), signal, price, indicators
        FROM %s`, s.table)
	if s.cfg.days > 0 {
		q.WriteString(` WHERE date >= today() - ?`)
		args = append(args, s.cfg.days)
	}
	q.WriteString(` ORDER BY stock_code ASC, date DESC LIMIT 1 BY stock_code`)
	if s.cfg.limit > 0 {
		q.WriteString(` LIMIT ?`)
		args = append(args, s.cfg.limit)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		s.cfg.l.Error("clickhouse fetch_snapshots query error",
			applogger.String("table", s.table),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query snapshots: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.SnapshotRow, 0, 1024)
	for rows.Next() {
		var r models.SnapshotRow
		var ind string
		if err := rows.Scan(&r.StockCode, &r.Date, &r.Signal, &r.Price, &ind); err != nil {
			s.cfg.l.Error("clickhouse fetch_snapshots scan error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
			return nil, fmt.Errorf("scan snapshot: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		r.Indicators = decodeIndicators(ind)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}

	s.cfg.l.Debug("clickhouse fetch_snapshots ok",
		applogger.String("table", s.table),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// Close closes the underlying client.
func (s *CHSnapshotSource) Close() error {
	return s.client.Close()
}
