// Package metrics records session bootstrap metrics with Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mrz1836/walletsync/internal/wallet"
)

const (
	metricsNamespace = "walletsync"
	metricsSubsystem = "session"
)

// Acquire outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AcquireBuckets covers a local devnet (seconds) through a cold sync against
// a public network (tens of minutes).
var AcquireBuckets = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800}

// Metrics holds the collectors for one registry.
type Metrics struct {
	applyGap  prometheus.Gauge
	sourceGap prometheus.Gauge
	txHistory prometheus.Gauge
	offset    prometheus.Gauge

	acquisitions        *prometheus.CounterVec
	fallbacks           *prometheus.CounterVec
	observationFailures prometheus.Counter
	acquireDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg creates
// unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		applyGap: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "apply_gap",
			Help:      "Blocks downloaded but not yet applied by the wallet",
		}),
		sourceGap: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "source_gap",
			Help:      "Blocks the wallet has not yet downloaded from the indexer",
		}),
		txHistory: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tx_history_length",
			Help:      "Transactions in the wallet history at the last sample",
		}),
		offset: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "sync_offset",
			Help:      "Sync offset reported by the wallet at the last sample",
		}),
		acquisitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "acquisitions_total",
				Help:      "Session acquisitions by path and outcome",
			},
			[]string{"path", "status"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "restore_fallbacks_total",
				Help:      "Restores abandoned in favor of a fresh build, by reason",
			},
			[]string{"reason"},
		),
		observationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "observation_failures_total",
			Help:      "State streams that errored or completed before a wait was satisfied",
		}),
		acquireDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "acquire_duration_seconds",
				Help:      "Wall time of a session acquisition",
				Buckets:   AcquireBuckets,
			},
			[]string{"path", "status"},
		),
	}
}

// ObserveState records the progress figures of a sampled state.
func (m *Metrics) ObserveState(st wallet.State) {
	if m == nil {
		return
	}
	m.applyGap.Set(float64(st.Status.ApplyGap))
	m.sourceGap.Set(float64(st.Status.SourceGap))
	m.txHistory.Set(float64(st.TxHistoryLen))
	m.offset.Set(float64(st.Offset))
}

// RecordAcquire records the outcome of one acquisition.
func (m *Metrics) RecordAcquire(path string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.acquisitions.WithLabelValues(path, status).Inc()
	m.acquireDuration.WithLabelValues(path, status).Observe(duration.Seconds())
}

// RecordFallback records a restore abandoned for reason.
func (m *Metrics) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

// RecordObservationFailure records a failed wait.
func (m *Metrics) RecordObservationFailure() {
	if m == nil {
		return
	}
	m.observationFailures.Inc()
}
