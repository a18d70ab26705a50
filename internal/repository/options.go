package repository

import (
	"encoding/json"
	"strings"

	"SignalBoard/internal/domain/models"
	applogger "SignalBoard/pkg/logger"
)

// StoreOption configures the SQL-backed stores.
type StoreOption func(*storeConfig)

type storeConfig struct {
	limit int
	days  int
	l     *applogger.Logger
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{l: applogger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSnapshotLimit caps the number of instruments fetched, each with its
// latest row; 0 means no cap.
func WithSnapshotLimit(n int) StoreOption {
	return func(c *storeConfig) {
		c.limit = n
	}
}

// WithSnapshotDays restricts analysis rows to the last n days; 0 means all.
func WithSnapshotDays(n int) StoreOption {
	return func(c *storeConfig) {
		c.days = n
	}
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(l *applogger.Logger) StoreOption {
	return func(c *storeConfig) {
		if l != nil {
			c.l = l
		}
	}
}

func decodeParamValue(raw string) models.ParamValue {
	var v models.ParamValue
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return models.StringValue(strings.TrimSpace(raw))
	}
	return v
}

func encodeParamValue(v models.ParamValue) (string, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeIndicators(raw string) models.Indicators {
	ind := models.Indicators{}
	if raw == "" {
		return ind
	}
	_ = json.Unmarshal([]byte(raw), &ind)
	return ind
}

func encodeIndicators(ind models.Indicators) (string, error) {
	if ind == nil {
		return "{}", nil
	}
	b, err := json.Marshal(ind)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
