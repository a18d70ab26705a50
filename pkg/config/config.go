package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends for the watchlist and strategy parameters.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreLegacy   = "legacy"
)

// Snapshot sources for analysis rows.
const (
	SourcePostgres   = "postgres"
	SourceSQLite     = "sqlite"
	SourceClickHouse = "clickhouse"
	SourceSheet      = "sheet"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
		SaveRateLimit   struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"save_rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Store struct {
		Type    string        `yaml:"type"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"store"`
	Snapshots struct {
		Source string        `yaml:"source"`
		Limit  int           `yaml:"limit"`
		Days   int           `yaml:"days"`
		Cache  time.Duration `yaml:"cache_ttl"`
	} `yaml:"snapshots"`
	Postgres struct {
		DSN      string `yaml:"dsn"`
		MinConns int    `yaml:"min_conns"`
		MaxConns int    `yaml:"max_conns"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Sheet struct {
		CSVURL  string        `yaml:"csv_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"sheet"`
	Legacy struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"legacy"`
	Cache struct {
		ConfigTTL time.Duration `yaml:"config_ttl"`
		Memory    struct {
			MaxSize int `yaml:"max_size"`
		} `yaml:"memory"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Stream struct {
		Interval     time.Duration `yaml:"interval"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"stream"`
	Strategy struct {
		Descriptions map[string]string `yaml:"descriptions"`
	} `yaml:"strategy"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyEnv(os.Getenv)
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SIGNALBOARD_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := getenv("SNAPSHOT_SOURCE"); v != "" {
		c.Snapshots.Source = v
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}
	if v := getenv("SHEET_CSV_URL"); v != "" {
		c.Sheet.CSVURL = v
	}
	if v := getenv("LEGACY_API_URL"); v != "" {
		c.Legacy.BaseURL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.SaveRateLimit.Capacity == 0 {
		c.Server.SaveRateLimit.Capacity = 5
	}
	if c.Server.SaveRateLimit.RefillPerSec == 0 {
		c.Server.SaveRateLimit.RefillPerSec = 1
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = 10 * time.Second
	}
	if c.Snapshots.Source == "" {
		c.Snapshots.Source = c.Store.Type
	}
	if c.Snapshots.Cache == 0 {
		c.Snapshots.Cache = 30 * time.Second
	}
	if c.Postgres.MaxConns == 0 {
		c.Postgres.MaxConns = 5
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "analysis_results"
	}
	if c.Sheet.Timeout == 0 {
		c.Sheet.Timeout = 15 * time.Second
	}
	if c.Legacy.Timeout == 0 {
		c.Legacy.Timeout = 15 * time.Second
	}
	if c.Cache.ConfigTTL == 0 {
		c.Cache.ConfigTTL = time.Minute
	}
	if c.Cache.Memory.MaxSize == 0 {
		c.Cache.Memory.MaxSize = 256
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "signalboard"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "signalboard.config"
	}
	if c.Kafka.Compression == "" {
		c.Kafka.Compression = "gzip"
	}
	if c.Kafka.RequiredAcks == 0 {
		c.Kafka.RequiredAcks = -1
	}
	if c.Stream.Interval == 0 {
		c.Stream.Interval = 30 * time.Second
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = 5 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console', got '%s'", c.Log.Format)
	}

	switch c.Store.Type {
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for store.type=%s", c.Store.Type)
		}
	case StoreSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for store.type=%s", c.Store.Type)
		}
	case StoreLegacy:
		if c.Legacy.BaseURL == "" {
			return fmt.Errorf("legacy.base_url is required for store.type=%s", c.Store.Type)
		}
		if c.pointsAtSelf(c.Legacy.BaseURL) {
			return fmt.Errorf("legacy.base_url must not point at this server (port %d), got '%s'", c.Server.Port, c.Legacy.BaseURL)
		}
	case "":
		return fmt.Errorf("store.type is required")
	default:
		return fmt.Errorf("store.type must be one of postgres, sqlite, legacy, got '%s'", c.Store.Type)
	}

	switch c.Snapshots.Source {
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for snapshots.source=%s", c.Snapshots.Source)
		}
	case SourceSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for snapshots.source=%s", c.Snapshots.Source)
		}
	case SourceClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for snapshots.source=%s", c.Snapshots.Source)
		}
	case SourceSheet:
		if c.Sheet.CSVURL == "" {
			return fmt.Errorf("sheet.csv_url is required for snapshots.source=%s", c.Snapshots.Source)
		}
	default:
		return fmt.Errorf("snapshots.source must be one of postgres, sqlite, clickhouse, sheet, got '%s'", c.Snapshots.Source)
	}

	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Snapshots.Limit < 0 {
		return fmt.Errorf("snapshots.limit must not be negative")
	}
	return nil
}

// pointsAtSelf reports whether raw is a loopback URL on the server's own port.
func (c *Config) pointsAtSelf(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	if port != strconv.Itoa(c.Server.Port) {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}
