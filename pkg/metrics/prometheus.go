package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	configLoads *prometheus.CounterVec
	configSaves *prometheus.CounterVec
	degraded    *prometheus.CounterVec
	boardSize   prometheus.Gauge
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg. A nil reg leaves
// the collectors unregistered, which tests rely on.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		configLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_config_loads_total",
				Help: "Configuration loads by store and outcome",
			},
			[]string{"source", "outcome"},
		),
		configSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_config_saves_total",
				Help: "Configuration saves by section and outcome",
			},
			[]string{"section", "outcome"},
		),
		degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_config_degraded_sections_total",
				Help: "Configuration sections served empty because the payload was malformed",
			},
			[]string{"section"},
		),
		boardSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "signalboard_board_rows",
				Help: "Number of instruments in the last projected board",
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalboard_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(r.configLoads, r.configSaves, r.degraded, r.boardSize, r.errorsTotal, r.latency)
	}
	return r
}

func (r *Recorder) RecordConfigLoad(source, outcome string) {
	r.configLoads.WithLabelValues(source, outcome).Inc()
}

func (r *Recorder) RecordConfigSave(section, outcome string) {
	r.configSaves.WithLabelValues(section, outcome).Inc()
}

func (r *Recorder) RecordDegraded(section string) {
	r.degraded.WithLabelValues(section).Inc()
}

func (r *Recorder) RecordBoardSize(n int) {
	r.boardSize.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordConfigLoad(string, string) {}
func (Nop) RecordConfigSave(string, string) {}
func (Nop) RecordDegraded(string)           {}
func (Nop) RecordBoardSize(int)             {}
func (Nop) RecordError(string)              {}
func (Nop) RecordLatency(string, float64)   {}
