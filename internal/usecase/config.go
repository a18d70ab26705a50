package usecase

import (
	"context"
	"fmt"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	"SignalBoard/internal/services/normalize"
	"SignalBoard/pkg/cache"
	applogger "SignalBoard/pkg/logger"
)

const statusSuccess = "success"

// LoadedConfig is a normalized configuration plus the sections that had to
// be served empty.
type LoadedConfig struct {
	Config   models.Config `json:"config"`
	Degraded []string      `json:"degraded,omitempty"`
}

// ConfigUseCase loads and saves the watchlist and strategy parameters.
type ConfigUseCase struct {
	store   domrepo.ConfigStore
	cache   cache.Service
	pub     domrepo.EventPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
	opts    options
}

func NewConfigUseCase(store domrepo.ConfigStore, c cache.Service, pub domrepo.EventPublisher, m domrepo.Metrics, l *applogger.Logger, opts ...Option) *ConfigUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	o := newOptions(opts)
	if o.ttl <= 0 {
		c = nil
	}
	return &ConfigUseCase{store: store, cache: c, pub: pub, metrics: m, l: l, opts: o}
}

// Load returns the normalized configuration. Empty descriptions are filled
// from the configured defaults. A backend failure is returned wrapped in
// domrepo.ErrBackendUnavailable.
func (uc *ConfigUseCase) Load(ctx context.Context) (*LoadedConfig, error) {
	key := cache.GenerateKey(configKeyPrefix, "normalized")
	lc, hit, err := cache.Remember(ctx, uc.cache, key, uc.opts.ttl, uc.fetch)
	if err != nil {
		return nil, err
	}
	if hit {
		uc.l.Debug("config served from cache")
	}
	return &lc, nil
}

func (uc *ConfigUseCase) fetch(ctx context.Context) (LoadedConfig, error) {
	start := uc.opts.now()
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	defer cancel()

	raw, err := uc.store.FetchConfig(ctx)
	uc.metrics.RecordLatency("config_fetch", uc.opts.now().Sub(start).Seconds())
	if err != nil {
		uc.metrics.RecordConfigLoad(uc.opts.source, "error")
		uc.metrics.RecordError("config_fetch")
		uc.l.Error("config fetch failed",
			applogger.String("source", uc.opts.source),
			applogger.Error(err),
		)
		return LoadedConfig{}, fmt.Errorf("fetch config: %w", wrapUnavailable(err))
	}

	cfg := normalize.Normalize(*raw)
	var filled int
	cfg.Strategy, filled = normalize.FillDescriptions(cfg.Strategy, uc.opts.descriptions)

	outcome := "ok"
	for _, section := range raw.Malformed {
		uc.metrics.RecordDegraded(section)
		outcome = "degraded"
	}
	uc.metrics.RecordConfigLoad(uc.opts.source, outcome)
	uc.l.Info("config loaded",
		applogger.String("source", uc.opts.source),
		applogger.Int("stocks", len(cfg.Watchlist)),
		applogger.Int("params", len(cfg.Strategy)),
		applogger.Int("descriptions_filled", filled),
		applogger.Strings("degraded", raw.Malformed),
	)
	return LoadedConfig{Config: cfg, Degraded: raw.Malformed}, nil
}

// View returns the configuration in the dashboard's wire shape.
func (uc *ConfigUseCase) View(ctx context.Context) (*models.ConfigView, error) {
	lc, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	view := normalize.View(lc.Config)
	view.Degraded = lc.Degraded
	return &view, nil
}

// EnabledStocks returns the codes of enabled watchlist entries in list order.
func (uc *ConfigUseCase) EnabledStocks(ctx context.Context) ([]string, error) {
	lc, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.EnabledSymbols(lc.Config.Watchlist), nil
}

// SaveWatchlist replaces the stored watchlist. Enabled is persisted as the
// literal "TRUE" or "FALSE".
func (uc *ConfigUseCase) SaveWatchlist(ctx context.Context, stocks []models.WireStock) (*models.SaveResult, error) {
	clean := normalize.DenormalizeWatchlist(normalize.Watchlist(stocks))

	err := uc.save(ctx, models.SectionWatchlist, func(ctx context.Context) error {
		return uc.store.SaveWatchlist(ctx, clean)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.ConfigEvent{Type: models.EventWatchlistSaved, Count: len(clean), At: uc.opts.now()})
	return &models.SaveResult{Status: statusSuccess, Message: models.MessageWatchlistSaved, Count: len(clean)}, nil
}

// SaveStrategy upserts the given parameter values.
func (uc *ConfigUseCase) SaveStrategy(ctx context.Context, config models.StrategyMapping) (*models.SaveResult, error) {
	err := uc.save(ctx, models.SectionStrategy, func(ctx context.Context) error {
		return uc.store.SaveStrategy(ctx, config)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.ConfigEvent{Type: models.EventStrategySaved, Count: len(config), Keys: config.Keys(), At: uc.opts.now()})
	return &models.SaveResult{Status: statusSuccess, Message: models.MessageStrategySaved, Count: len(config)}, nil
}

func (uc *ConfigUseCase) save(ctx context.Context, section string, do func(context.Context) error) error {
	start := uc.opts.now()
	sctx, cancel := context.WithTimeout(ctx, uc.opts.timeout)
	defer cancel()

	err := do(sctx)
	uc.metrics.RecordLatency("config_save_"+section, uc.opts.now().Sub(start).Seconds())
	if err != nil {
		uc.metrics.RecordConfigSave(section, "error")
		uc.metrics.RecordError("config_save")
		uc.l.Error("config save failed",
			applogger.String("section", section),
			applogger.String("source", uc.opts.source),
			applogger.Error(err),
		)
		return fmt.Errorf("save %s: %w", section, wrapSaveFailed(err))
	}
	uc.metrics.RecordConfigSave(section, "ok")

	if uc.cache != nil {
		if err := uc.cache.DeleteByPattern(ctx, cache.BuildPattern(configKeyPrefix+":")); err != nil {
			uc.l.Warn("config cache invalidation failed", applogger.Error(err))
		}
	}
	return nil
}

// publish announces a save. Failures are logged only.
func (uc *ConfigUseCase) publish(ctx context.Context, ev models.ConfigEvent) {
	if uc.pub == nil {
		return
	}
	if err := uc.pub.PublishConfigEvent(ctx, ev); err != nil {
		uc.metrics.RecordError("event_publish")
		uc.l.Warn("config event publish failed",
			applogger.String("type", ev.Type),
			applogger.Error(err),
		)
	}
}
