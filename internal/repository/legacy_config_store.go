package repository

import (
	"context"
	"fmt"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	pkghttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"
)

// Paths served by the legacy configuration API.
const (
	legacyConfigPath        = "/api/config"
	legacySaveStockListPath = "/api/save_stock_list"
	legacySaveStrategyPath  = "/api/save_strategy"
	legacyStatusSuccess     = "success"
)

type legacySaveResponse struct {
	Status string `json:"status"`
}

// LegacyConfigStore talks to the older HTTP configuration service. Its
// strategy section comes either as a record list or as a plain object.
type LegacyConfigStore struct {
	client *pkghttp.Client
	l      *applogger.Logger
}

// NewLegacyConfigStore creates a store on a client whose base URL points at
// the legacy service.
func NewLegacyConfigStore(client *pkghttp.Client, l *applogger.Logger) *LegacyConfigStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &LegacyConfigStore{client: client, l: l}
}

func (s *LegacyConfigStore) FetchConfig(ctx context.Context) (*models.RawConfigPayload, error) {
	var payload models.RawConfigPayload
	if err := s.client.GetJSON(ctx, legacyConfigPath, &payload); err != nil {
		return nil, fmt.Errorf("legacy get config: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	if len(payload.Malformed) > 0 {
		s.l.Warn("legacy config has malformed sections", applogger.Strings("sections", payload.Malformed))
	}
	return &payload, nil
}

func (s *LegacyConfigStore) SaveWatchlist(ctx context.Context, stocks []models.WireStock) error {
	if stocks == nil {
		stocks = []models.WireStock{}
	}
	return s.save(ctx, legacySaveStockListPath, stocks)
}

func (s *LegacyConfigStore) SaveStrategy(ctx context.Context, config models.StrategyMapping) error {
	if config == nil {
		config = models.StrategyMapping{}
	}
	return s.save(ctx, legacySaveStrategyPath, struct {
		Config models.StrategyMapping `json:"config"`
	}{Config: config})
}

func (s *LegacyConfigStore) save(ctx context.Context, path string, body interface{}) error {
	var resp legacySaveResponse
	if err := s.client.PostJSON(ctx, path, body, &resp); err != nil {
		return fmt.Errorf("legacy post %s: %w: %w", path, domrepo.ErrSaveFailed, err)
	}
	if resp.Status != legacyStatusSuccess {
		return fmt.Errorf("legacy post %s: %w: status %q", path, domrepo.ErrSaveFailed, resp.Status)
	}
	return nil
}

func (s *LegacyConfigStore) Close() error { return nil }
