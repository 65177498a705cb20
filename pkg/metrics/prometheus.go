// Package metrics provides Prometheus metrics for the logquest progress core.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Label values shared with callers.
const (
	ResultOK    = "ok"
	ResultError = "error"

	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
)

// Manager owns the progress core's Prometheus collectors.
type Manager struct {
	namespace      string
	subsystem      string
	payloadBuckets []float64
	constLabels    map[string]string
	registry       *prometheus.Registry

	// Ledger activity
	scoresRecorded prometheus.Counter
	nameUpdates    prometheus.Counter
	scoreResets    prometheus.Counter
	ledgerEntries  prometheus.Gauge
	totalScore     prometheus.Gauge

	// Durability
	guardRejections    *prometheus.CounterVec
	guardPayloadBytes  prometheus.Histogram
	corruptDiscards    *prometheus.CounterVec
	durabilityFailures *prometheus.CounterVec

	// Backend
	storageOperations *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager registered on its own registry unless
// WithRegistry supplies one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "logquest",
		subsystem: "progress",
		// 1 KiB .. 128 KiB; the guard limit sits at 100 KiB.
		payloadBuckets: prometheus.ExponentialBuckets(1024, 2, 8),
		constLabels:    map[string]string{},
		registry:       prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scores_recorded_total",
		Help:        "Activity scores accepted into the in-memory ledger",
		ConstLabels: m.constLabels,
	})
	m.nameUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "name_updates_total",
		Help:        "Player name changes accepted",
		ConstLabels: m.constLabels,
	})
	m.scoreResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_resets_total",
		Help:        "Ledger resets",
		ConstLabels: m.constLabels,
	})
	m.ledgerEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ledger_entries",
		Help:        "Records currently held in the in-memory ledger",
		ConstLabels: m.constLabels,
	})
	m.totalScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "total_score",
		Help:        "Sum of scores in the in-memory ledger",
		ConstLabels: m.constLabels,
	})

	m.guardRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "guard_rejections_total",
		Help:        "Values refused by the storage guard, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})
	m.guardPayloadBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "guard_payload_bytes",
		Help:        "Serialized size of values checked by the storage guard",
		Buckets:     m.payloadBuckets,
		ConstLabels: m.constLabels,
	})
	m.corruptDiscards = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "corrupt_discards_total",
		Help:        "Durable values discarded at load because they could not be decoded",
		ConstLabels: m.constLabels,
	}, []string{"key"})
	m.durabilityFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "durability_failures_total",
		Help:        "In-memory updates whose durable write was refused or failed",
		ConstLabels: m.constLabels,
	}, []string{"key", "reason"})

	m.storageOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_operations_total",
		Help:        "Durable key/value operations, by backend, operation and result",
		ConstLabels: m.constLabels,
	}, []string{"backend", "op", "result"})
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText renders every gathered metric family in the Prometheus text
// exposition format.
func (m *Manager) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}
	return nil
}

// Default returns the process-wide manager used by the package-level helpers.
func Default() *Manager {
	return globalManager
}

// WriteText renders the process-wide metrics.
func WriteText(w io.Writer) error {
	return globalManager.WriteText(w)
}

// RecordScoreRecorded increments the accepted scores counter.
func RecordScoreRecorded() {
	globalManager.scoresRecorded.Inc()
}

// RecordNameUpdate increments the accepted name changes counter.
func RecordNameUpdate() {
	globalManager.nameUpdates.Inc()
}

// RecordScoreReset increments the ledger reset counter.
func RecordScoreReset() {
	globalManager.scoreResets.Inc()
}

// UpdateLedger sets the ledger size and total score gauges.
func UpdateLedger(entries, total int) {
	globalManager.ledgerEntries.Set(float64(entries))
	globalManager.totalScore.Set(float64(total))
}

// RecordGuardRejection counts a guard refusal for reason.
func RecordGuardRejection(reason string) {
	globalManager.guardRejections.WithLabelValues(reason).Inc()
}

// ObserveGuardPayload records the serialized size of a guarded value.
func ObserveGuardPayload(bytes int) {
	globalManager.guardPayloadBytes.Observe(float64(bytes))
}

// RecordCorruptDiscard counts a durable key discarded at load.
func RecordCorruptDiscard(key string) {
	globalManager.corruptDiscards.WithLabelValues(key).Inc()
}

// RecordDurabilityFailure counts an update that did not reach durable storage.
func RecordDurabilityFailure(key, reason string) {
	globalManager.durabilityFailures.WithLabelValues(key, reason).Inc()
}

// RecordStorageOperation counts one backend call.
func RecordStorageOperation(backend, op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	globalManager.storageOperations.WithLabelValues(backend, op, result).Inc()
}
