package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"NavScan/internal/domain/models"
)

// Recorder implements domain.repository.Metrics on a private Prometheus
// registry. A batch run has no scrape endpoint, so Flush writes the registry
// in text format for the node-exporter textfile collector.
type Recorder struct {
	reg *prometheus.Registry

	rowsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	burstDays   *prometheus.GaugeVec
	outliers    *prometheus.GaugeVec
	smoothDays  *prometheus.GaugeVec
	label       *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
	lastRun     prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		rowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navscan_rows_total",
				Help: "Rows processed per stage and ticker",
			},
			[]string{"stage", "ticker"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		burstDays: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navscan_burst_days",
				Help: "Rows tagged as burst cluster members",
			},
			[]string{"ticker"},
		),
		outliers: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navscan_outliers",
				Help: "Rows tagged as return outliers",
			},
			[]string{"ticker"},
		),
		smoothDays: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navscan_smooth_days",
				Help: "Rows flagged by the peer-relative smooth alert",
			},
			[]string{"ticker"},
		),
		label: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "navscan_classification",
				Help: "1 for the label assigned to the ticker in the last run",
			},
			[]string{"ticker", "label"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "navscan_last_run_timestamp_seconds",
			Help: "Unix time of the last completed stage",
		}),
	}
}

// RecordRows adds n processed rows for a stage and ticker.
func (r *Recorder) RecordRows(stage, ticker string, n int) {
	r.rowsTotal.WithLabelValues(stage, ticker).Add(float64(n))
}

// RecordTicker sets the per-ticker anomaly gauges.
func (r *Recorder) RecordTicker(s models.TickerSummary) {
	r.burstDays.WithLabelValues(s.Ticker).Set(float64(s.BurstDays))
	r.outliers.WithLabelValues(s.Ticker).Set(float64(s.Outliers))
	r.smoothDays.WithLabelValues(s.Ticker).Set(float64(s.SmoothDays))
	r.label.DeletePartialMatch(prometheus.Labels{"ticker": s.Ticker})
	r.label.WithLabelValues(s.Ticker, string(s.Label)).Set(1)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Flush stamps the run time and writes the registry to path atomically.
// An empty path is a no-op.
func (r *Recorder) Flush(path string) error {
	if path == "" {
		return nil
	}
	r.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
