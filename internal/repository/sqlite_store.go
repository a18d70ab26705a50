package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	applogger "SignalBoard/pkg/logger"
)

// SQLiteStore is the local backend with the same tables and save semantics
// as PostgresStore.
type SQLiteStore struct {
	db  *sql.DB
	cfg storeConfig
}

// NewSQLiteStore creates a store over an open, migrated database.
func NewSQLiteStore(db *sql.DB, opts ...StoreOption) *SQLiteStore {
	return &SQLiteStore{db: db, cfg: newStoreConfig(opts)}
}

func (s *SQLiteStore) FetchConfig(ctx context.Context) (*models.RawConfigPayload, error) {
	stocks, err := s.fetchStocks(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.fetchStrategy(ctx)
	if err != nil {
		return nil, err
	}
	return &models.RawConfigPayload{
		StockList: stocks,
		Strategy:  models.SequenceForm{Records: records},
	}, nil
}

func (s *SQLiteStore) fetchStocks(ctx context.Context) ([]models.WireStock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, enabled, memo FROM stocks ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.WireStock, 0, 16)
	for rows.Next() {
		var code, name, memo string
		var enabled bool
		if err := rows.Scan(&code, &name, &enabled, &memo); err != nil {
			return nil, fmt.Errorf("scan stock: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		out = append(out, models.WireStock{
			Stock:   models.StockCode(code),
			Name:    name,
			Enabled: models.BoolFlag(enabled),
			Memo:    memo,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stocks rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	return out, nil
}

func (s *SQLiteStore) fetchStrategy(ctx context.Context) ([]models.StrategyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT param_key, param_value, description FROM strategy_params ORDER BY position, param_key`)
	if err != nil {
		return nil, fmt.Errorf("query strategy: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.StrategyRecord, 0, 8)
	for rows.Next() {
		var key, value, desc string
		if err := rows.Scan(&key, &value, &desc); err != nil {
			return nil, fmt.Errorf("scan strategy: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		out = append(out, models.StrategyRecord{
			Parameter:   key,
			Value:       decodeParamValue(value),
			Description: desc,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("strategy rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	return out, nil
}

// SaveWatchlist replaces the stored list in one transaction.
func (s *SQLiteStore) SaveWatchlist(ctx context.Context, stocks []models.WireStock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM stocks`); err != nil {
		return fmt.Errorf("clear stocks: %w: %w", domrepo.ErrSaveFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stocks (position, code, name, enabled, memo) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer stmt.Close()

	for i, st := range stocks {
		if _, err := stmt.ExecContext(ctx, i, string(st.Stock), st.Name, st.Enabled.IsTrue(), st.Memo); err != nil {
			return fmt.Errorf("insert stock %d: %w: %w", i, domrepo.ErrSaveFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", domrepo.ErrSaveFailed, err)
	}
	s.cfg.l.Debug("sqlite watchlist saved", applogger.Int("count", len(stocks)))
	return nil
}

// SaveStrategy upserts values by key. Existing rows keep their description
// and position; new keys are appended with an empty description.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, config models.StrategyMapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO strategy_params (param_key, param_value, description, position)
		VALUES (?, ?, '', (SELECT COALESCE(MAX(position), -1) + 1 FROM strategy_params))
		ON CONFLICT (param_key) DO UPDATE
		SET param_value = excluded.param_value, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer stmt.Close()

	for _, e := range config {
		v, err := encodeParamValue(e.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w: %w", e.Key, domrepo.ErrSaveFailed, err)
		}
		if _, err := stmt.ExecContext(ctx, e.Key, v); err != nil {
			return fmt.Errorf("upsert %s: %w: %w", e.Key, domrepo.ErrSaveFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", domrepo.ErrSaveFailed, err)
	}
	return nil
}

// FetchSnapshots returns the latest row per stock code, ordered by code. The
// limit caps instruments, never history.
func (s *SQLiteStore) FetchSnapshots(ctx context.Context) ([]models.SnapshotRow, error) {
	var (
		q    strings.Builder
		args []interface{}
	)
	q.WriteString(`SELECT stock_code, date, signal, price, indicators FROM (
		SELECT stock_code, date, signal, price, indicators,
			ROW_NUMBER() OVER (PARTITION BY stock_code ORDER BY date DESC, id ASC) AS rn
		FROM analysis_results`)
	if s.cfg.days > 0 {
		q.WriteString(` WHERE date >= date('now', ?)`)
		args = append(args, fmt.Sprintf("-%d days", s.cfg.days))
	}
	q.WriteString(`) WHERE rn = 1 ORDER BY stock_code ASC`)
	if s.cfg.limit > 0 {
		q.WriteString(` LIMIT ?`)
		args = append(args, s.cfg.limit)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query analysis_results: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.SnapshotRow, 0, 256)
	for rows.Next() {
		var r models.SnapshotRow
		var ind string
		if err := rows.Scan(&r.StockCode, &r.Date, &r.Signal, &r.Price, &ind); err != nil {
			return nil, fmt.Errorf("scan analysis_results: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		r.Indicators = decodeIndicators(ind)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analysis_results rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	return out, nil
}

// InsertSnapshots appends analysis rows in one transaction.
func (s *SQLiteStore) InsertSnapshots(ctx context.Context, rows []models.SnapshotRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO analysis_results (date, stock_code, signal, price, indicators) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		ind, err := encodeIndicators(r.Indicators)
		if err != nil {
			return fmt.Errorf("encode indicators for %s: %w", r.StockCode, err)
		}
		if _, err := stmt.ExecContext(ctx, r.Date, r.StockCode, r.Signal, r.Price, ind); err != nil {
			return fmt.Errorf("insert %s %s: %w", r.StockCode, r.Date, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
