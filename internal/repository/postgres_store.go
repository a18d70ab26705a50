package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	applogger "SignalBoard/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the watchlist, strategy parameters and analysis rows
// in Postgres. It serves as both ConfigStore and SnapshotSource.
type PostgresStore struct {
	pool *pgxpool.Pool
	cfg  storeConfig
}

// NewPostgresStore creates a store over an open pool.
func NewPostgresStore(pool *pgxpool.Pool, opts ...StoreOption) *PostgresStore {
	return &PostgresStore{pool: pool, cfg: newStoreConfig(opts)}
}

func (s *PostgresStore) FetchConfig(ctx context.Context) (*models.RawConfigPayload, error) {
	rows, err := s.pool.Query(ctx, `SELECT code, name, enabled, memo FROM stocks ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query stocks: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	stocks := make([]models.WireStock, 0, 16)
	for rows.Next() {
		var code, name, memo string
		var enabled bool
		if err := rows.Scan(&code, &name, &enabled, &memo); err != nil {
			return nil, fmt.Errorf("scan stock: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		stocks = append(stocks, models.WireStock{
			Stock:   models.StockCode(code),
			Name:    name,
			Enabled: models.BoolFlag(enabled),
			Memo:    memo,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stocks rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}

	prow, err := s.pool.Query(ctx, `SELECT param_key, param_value::text, description FROM strategy_params ORDER BY position, param_key`)
	if err != nil {
		return nil, fmt.Errorf("query strategy: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	defer prow.Close()

	records := make([]models.StrategyRecord, 0, 8)
	for prow.Next() {
		var key, value, desc string
		if err := prow.Scan(&key, &value, &desc); err != nil {
			return nil, fmt.Errorf("scan strategy: %w: %w", domrepo.ErrBackendUnavailable, err)
		}
		records = append(records, models.StrategyRecord{
			Parameter:   key,
			Value:       decodeParamValue(value),
			Description: desc,
		})
	}
	if err := prow.Err(); err != nil {
		return nil, fmt.Errorf("strategy rows: %w: %w", domrepo.ErrBackendUnavailable, err)
	}

	return &models.RawConfigPayload{
		StockList: stocks,
		Strategy:  models.SequenceForm{Records: records},
	}, nil
}

// SaveWatchlist replaces the stored list in one transaction.
func (s *PostgresStore) SaveWatchlist(ctx context.Context, stocks []models.WireStock) error {
	start := time.Now()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM stocks`); err != nil {
		return fmt.Errorf("clear stocks: %w: %w", domrepo.ErrSaveFailed, err)
	}

	batch := &pgx.Batch{}
	for i, st := range stocks {
		batch.Queue(
			`INSERT INTO stocks (position, code, name, enabled, memo) VALUES ($1, $2, $3, $4, $5)`,
			i, string(st.Stock), st.Name, st.Enabled.IsTrue(), st.Memo,
		)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert stocks: %w: %w", domrepo.ErrSaveFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w: %w", domrepo.ErrSaveFailed, err)
	}
	s.cfg.l.Debug("postgres watchlist saved",
		applogger.Int("count", len(stocks)),
		applogger.Duration("duration", time.Since(start)),
	)
	return nil
}

// SaveStrategy upserts values by key. Existing rows keep their description
// and position; new keys are appended with an empty description.
func (s *PostgresStore) SaveStrategy(ctx context.Context, config models.StrategyMapping) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domrepo.ErrSaveFailed, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, e := range config {
		v, err := encodeParamValue(e.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w: %w", e.Key, domrepo.ErrSaveFailed, err)
		}
		batch.Queue(`
			INSERT INTO strategy_params (param_key, param_value, description, position)
			VALUES ($1, $2::jsonb, '', (SELECT COALESCE(MAX(position), -1) + 1 FROM strategy_params))
			ON CONFLICT (param_key) DO UPDATE
			SET param_value = EXCLUDED.param_value, updated_at = now()`,
			e.Key, v,
		)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("upsert strategy: %w: %w", domrepo.ErrSaveFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w: %w", domrepo.ErrSaveFailed, err)
	}
	return nil
}

// FetchSnapshots returns the latest row per stock code, ordered by code. The
// limit caps instruments, never history.
func (s *PostgresStore) FetchSnapshots(ctx context.Context) ([]models.SnapshotRow, error) {
	var (
		q    strings.Builder
		args []interface{}
	)
	q.WriteString(`SELECT DISTINCT ON (stock_code) stock_code, to_char(date, 'YYYY-MM-DD'), signal, price, indicators::text FROM analysis_results`)
	if s.cfg.days > 0 {
		args = append(args, s.cfg.days)
		q.WriteString(` WHERE date >= current_date - $` + strconv.Itoa(len(args)) + `::int`)
	}
	q.WriteString(` ORDER BY stock_code ASC, date DESC, id ASC`)
	if s.cfg.limit > 0 {
		args = append(args, s.cfg.limit)
		q.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}

	rows, err := s.pool.Query(ctx, q.String(), args...)
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
func (s *PostgresStore) InsertSnapshots(ctx context.Context, rows []models.SnapshotRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, r := range rows {
		ind, err := encodeIndicators(r.Indicators)
		if err != nil {
			return fmt.Errorf("encode indicators for %s: %w", r.StockCode, err)
		}
		batch.Queue(
			`INSERT INTO analysis_results (date, stock_code, signal, price, indicators) VALUES ($1::date, $2, $3, $4, $5::jsonb)`,
			r.Date, r.StockCode, r.Signal, r.Price, ind,
		)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert analysis_results: %w", err)
	}
	return tx.Commit(ctx)
}

// Close releases the pool. It is safe to call more than once.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return results.Close()
}
