package di

import (
	"context"
	"fmt"
	"time"

	"SignalBoard/internal/domain/repository"
	"SignalBoard/internal/handler/api"
	internalrepo "SignalBoard/internal/repository"
	"SignalBoard/internal/services/draft"
	"SignalBoard/internal/usecase"
	"SignalBoard/pkg/cache"
	pkgch "SignalBoard/pkg/clickhouse"
	"SignalBoard/pkg/config"
	xhttp "SignalBoard/pkg/http"
	"SignalBoard/pkg/http/middleware"
	pkgkafka "SignalBoard/pkg/kafka"
	applogger "SignalBoard/pkg/logger"
	"SignalBoard/pkg/metrics"
	"SignalBoard/pkg/postgres"
	"SignalBoard/pkg/server"
	"SignalBoard/pkg/sqlite"
)

const connectTimeout = 10 * time.Second

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideConfigStore opens the configured watchlist/strategy backend.
func ProvideConfigStore(cfg *config.Config, l *applogger.Logger) (repository.ConfigStore, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var store repository.ConfigStore
	switch cfg.Store.Type {
	case config.StorePostgres:
		s, err := openPostgres(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		store = s
	case config.StoreSQLite:
		s, err := openSQLite(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		store = s
	case config.StoreLegacy:
		client := xhttp.NewClient(
			xhttp.WithBaseURL(cfg.Legacy.BaseURL),
			xhttp.WithTimeout(cfg.Legacy.Timeout),
		)
		store = internalrepo.NewLegacyConfigStore(client, l)
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	l.Info("config store ready", applogger.String("type", cfg.Store.Type))
	cleanup := func() {
		if err := store.Close(); err != nil {
			l.Warn("config store close error", applogger.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideSnapshotSource opens the analysis row source. When it is the same
// SQL backend as the config store, the store is reused.
func ProvideSnapshotSource(cfg *config.Config, store repository.ConfigStore, l *applogger.Logger) (repository.SnapshotSource, func(), error) {
	if cfg.Snapshots.Source == cfg.Store.Type {
		if src, ok := store.(repository.SnapshotSource); ok {
			return src, func() {}, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var src repository.SnapshotSource
	switch cfg.Snapshots.Source {
	case config.SourcePostgres:
		s, err := openPostgres(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		src = s
	case config.SourceSQLite:
		s, err := openSQLite(ctx, cfg, l)
		if err != nil {
			return nil, nil, err
		}
		src = s
	case config.SourceClickHouse:
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		src = internalrepo.NewCHSnapshotSource(client, cfg.ClickHouse.Table, snapshotOptions(cfg, l)...)
	case config.SourceSheet:
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Sheet.Timeout))
		src = internalrepo.NewSheetSnapshotSource(client, cfg.Sheet.CSVURL, l)
	default:
		return nil, nil, fmt.Errorf("unknown snapshot source %q", cfg.Snapshots.Source)
	}

	l.Info("snapshot source ready", applogger.String("source", cfg.Snapshots.Source))
	cleanup := func() {
		if err := src.Close(); err != nil {
			l.Warn("snapshot source close error", applogger.Error(err))
		}
	}
	return src, cleanup, nil
}

func snapshotOptions(cfg *config.Config, l *applogger.Logger) []internalrepo.StoreOption {
	return []internalrepo.StoreOption{
		internalrepo.WithSnapshotLimit(cfg.Snapshots.Limit),
		internalrepo.WithSnapshotDays(cfg.Snapshots.Days),
		internalrepo.WithStoreLogger(l),
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, l *applogger.Logger) (*internalrepo.PostgresStore, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MinConns: cfg.Postgres.MinConns,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := postgres.Migrate(ctx, pool, internalrepo.PostgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return internalrepo.NewPostgresStore(pool, snapshotOptions(cfg, l)...), nil
}

func openSQLite(ctx context.Context, cfg *config.Config, l *applogger.Logger) (*internalrepo.SQLiteStore, error) {
	db, err := sqlite.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	if err := sqlite.Migrate(ctx, db, internalrepo.SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return internalrepo.NewSQLiteStore(db, snapshotOptions(cfg, l)...), nil
}

// ProvideCache creates the in-process cache, backed by Redis when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize),
			cache.WithLayeredMemoryTTL(cfg.Snapshots.Cache),
		)
		l.Info("cache ready", applogger.String("type", "layered"), applogger.String("redis", cfg.Cache.Redis.Addr))
	} else {
		svc = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize))
		l.Info("cache ready", applogger.String("type", "memory"))
	}
	cleanup := func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvideEventPublisher creates the Kafka change publisher, or a no-op one
// when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config, l *applogger.Logger) (repository.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	l.Info("kafka publisher ready",
		applogger.Strings("brokers", cfg.Kafka.Brokers),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka publisher close error", applogger.Error(err))
		}
	}
	return pub, cleanup, nil
}

// ProvideConfigUseCase creates the configuration use case.
func ProvideConfigUseCase(
	cfg *config.Config,
	store repository.ConfigStore,
	c cache.Service,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ConfigUseCase {
	return usecase.NewConfigUseCase(store, c, pub, m, l,
		usecase.WithTTL(cfg.Cache.ConfigTTL),
		usecase.WithTimeout(cfg.Store.Timeout),
		usecase.WithSourceName(cfg.Store.Type),
		usecase.WithDescriptions(descriptions(cfg)),
	)
}

// descriptions merges configured descriptions over the built-in ones.
func descriptions(cfg *config.Config) map[string]string {
	out := make(map[string]string, len(draft.DefaultDescriptions)+len(cfg.Strategy.Descriptions))
	for k, v := range draft.DefaultDescriptions {
		out[k] = v
	}
	for k, v := range cfg.Strategy.Descriptions {
		out[k] = v
	}
	return out
}

// ProvideBoardUseCase creates the signal board use case.
func ProvideBoardUseCase(
	cfg *config.Config,
	src repository.SnapshotSource,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BoardUseCase {
	return usecase.NewBoardUseCase(src, c, m, l,
		usecase.WithTTL(cfg.Snapshots.Cache),
		usecase.WithTimeout(cfg.Store.Timeout),
		usecase.WithSourceName(cfg.Snapshots.Source),
	)
}

// ProvideHTTPHandler assembles every route group.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	configUC *usecase.ConfigUseCase,
	boardUC *usecase.BoardUseCase,
	dashboardUC *usecase.DashboardUseCase,
) xhttp.Handler {
	limiter := middleware.NewLimiter(cfg.Server.SaveRateLimit.Capacity, cfg.Server.SaveRateLimit.RefillPerSec)
	return xhttp.Handlers{
		api.NewConfigEchoHandler(l, configUC, limiter),
		api.NewSignalsEchoHandler(l, boardUC, dashboardUC),
		api.NewStreamHandler(l, boardUC, cfg.Stream.Interval, cfg.Stream.WriteTimeout),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
