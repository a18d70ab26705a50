package usecase

import "time"

// Cache keys. Saves drop everything under configKeyPrefix.
const (
	configKeyPrefix = "config"
	boardKeyPrefix  = "board"
)

// Option configures the use cases.
type Option func(*options)

type options struct {
	ttl          time.Duration
	timeout      time.Duration
	source       string
	descriptions map[string]string
	now          func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		ttl:     time.Minute,
		timeout: 10 * time.Second,
		source:  "unknown",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTTL sets how long results stay cached; 0 disables caching.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithSourceName labels metrics with the backend name.
func WithSourceName(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

// WithDescriptions sets fallback descriptions for strategy parameters.
func WithDescriptions(m map[string]string) Option {
	return func(o *options) {
		o.descriptions = m
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
