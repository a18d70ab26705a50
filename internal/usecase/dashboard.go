package usecase

import (
	"context"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/services/projection"

	"golang.org/x/sync/errgroup"
)

// DashboardUseCase loads everything the dashboard home shows in one call.
type DashboardUseCase struct {
	config *ConfigUseCase
	board  *BoardUseCase
}

func NewDashboardUseCase(config *ConfigUseCase, board *BoardUseCase) *DashboardUseCase {
	return &DashboardUseCase{config: config, board: board}
}

// Home fetches the config view and the board concurrently. A failing
// config backend leaves Config nil and adds an advisory.
func (uc *DashboardUseCase) Home(ctx context.Context) (*models.DashboardView, error) {
	var (
		view  *models.ConfigView
		board *models.Board
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if v, err := uc.config.View(gctx); err == nil {
			view = v
		}
		return nil
	})
	g.Go(func() error {
		board = uc.board.Board(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &models.DashboardView{
		Config:  view,
		Board:   board,
		Summary: projection.Summarize(board.Rows),
	}
	if view == nil {
		out.Advisories = append(out.Advisories, models.AdvisoryBackendUnavailable)
	}
	if board.Advisory != "" {
		out.Advisories = append(out.Advisories, board.Advisory)
	}
	return out, nil
}
