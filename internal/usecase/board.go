package usecase

import (
	"context"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	"SignalBoard/internal/services/projection"
	"SignalBoard/pkg/cache"
	applogger "SignalBoard/pkg/logger"
)

// BoardUseCase projects analysis snapshots into the signal board.
type BoardUseCase struct {
	source  domrepo.SnapshotSource
	cache   cache.Service
	metrics domrepo.Metrics
	l       *applogger.Logger
	opts    options
}

func NewBoardUseCase(source domrepo.SnapshotSource, c cache.Service, m domrepo.Metrics, l *applogger.Logger, opts ...Option) *BoardUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	o := newOptions(opts)
	if o.ttl <= 0 {
		c = nil
	}
	return &BoardUseCase{source: source, cache: c, metrics: m, l: l, opts: o}
}

// Board returns the latest row per instrument. It never fails: an
// unreachable source yields an empty board carrying an advisory.
func (uc *BoardUseCase) Board(ctx context.Context) *models.Board {
	key := cache.GenerateKey(boardKeyPrefix, "latest")
	board, _, err := cache.Remember(ctx, uc.cache, key, uc.opts.ttl, uc.project)
	if err != nil {
		return &models.Board{
			Rows:      []models.ProjectedRow{},
			Advisory:  models.AdvisoryNoSnapshots,
			FetchedAt: uc.opts.now(),
		}
	}
	if board.Total == 0 {
		board.Advisory = models.AdvisoryNoSnapshots
	}
	return &board
}

func (uc *BoardUseCase) project(ctx context.Context) (models.Board, error) {
	start := uc.opts.now()
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	defer cancel()

	raw, err := uc.source.FetchSnapshots(ctx)
	uc.metrics.RecordLatency("snapshot_fetch", uc.opts.now().Sub(start).Seconds())
	if err != nil {
		uc.metrics.RecordError("snapshot_fetch")
		uc.l.Error("snapshot fetch failed", applogger.Error(err))
		return models.Board{}, err
	}

	rows := projection.Rows(raw)
	uc.metrics.RecordBoardSize(len(rows))
	uc.l.Debug("board projected",
		applogger.Int("snapshots", len(raw)),
		applogger.Int("rows", len(rows)),
	)
	return models.Board{Rows: rows, Total: len(rows), FetchedAt: uc.opts.now()}, nil
}

// Signals returns the board filtered to one signal and capped at limit rows.
// Total counts the filtered rows before the cap.
func (uc *BoardUseCase) Signals(ctx context.Context, req models.SignalsRequest) *models.Board {
	board := uc.Board(ctx)
	if req.Signal == "" && (req.Limit <= 0 || req.Limit >= len(board.Rows)) {
		return board
	}

	rows := make([]models.ProjectedRow, 0, len(board.Rows))
	for _, r := range board.Rows {
		if req.Signal != "" && r.Signal.String() != req.Signal {
			continue
		}
		rows = append(rows, r)
	}
	total := len(rows)
	if req.Limit > 0 && len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}
	return &models.Board{Rows: rows, Total: total, Advisory: board.Advisory, FetchedAt: board.FetchedAt}
}

// Summary counts the board's rows per signal.
func (uc *BoardUseCase) Summary(ctx context.Context) models.SignalSummary {
	return projection.Summarize(uc.Board(ctx).Rows)
}
