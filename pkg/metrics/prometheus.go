// Package metrics provides Prometheus metrics for the cognitive scoring and
// gating engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring metrics.
	snapshotsComputed   prometheus.Counter
	snapshotLatency     prometheus.Histogram
	decayApplications   prometheus.Counter
	invariantViolations prometheus.Counter

	// Gating metrics.
	gateDecisions    *prometheus.CounterVec
	contentRankings  prometheus.Counter
	difficultyAdvice *prometheus.CounterVec
	quotaLatency     prometheus.Histogram

	// Session recording metrics.
	sessionsRecorded  *prometheus.CounterVec
	duplicateSessions prometheus.Counter
	storeRetries      prometheus.Counter
	storeFailures     prometheus.Counter

	// Anti-repetition metrics.
	combosGenerated         prometheus.Counter
	comboDuplicatesRejected prometheus.Counter
	comboFallbacks          prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cognigate",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics registers every metric with the configured registry.
func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}

	m.snapshotsComputed = prometheus.NewCounter(factory("snapshots_computed_total", "Daily derived score snapshots computed."))
	m.snapshotLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_duration_seconds", Help: "Snapshot computation latency.",
		Buckets: m.histogramBuckets,
	})
	m.decayApplications = prometheus.NewCounter(factory("rq_decay_applied_total", "Inactivity decay applications to reasoning quality."))
	m.invariantViolations = prometheus.NewCounter(factory("invariant_violations_total", "Scores found outside their declared range before the defensive clamp."))

	m.gateDecisions = prometheus.NewCounterVec(factory("gate_decisions_total", "Game eligibility decisions by status and reason."), []string{"status", "reason"})
	m.contentRankings = prometheus.NewCounter(factory("content_rankings_total", "Content suggestion rankings computed."))
	m.difficultyAdvice = prometheus.NewCounterVec(factory("difficulty_advice_total", "Difficulty recommendations by tier."), []string{"tier"})
	m.quotaLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "quota_recount_duration_seconds", Help: "Fresh cap recount latency.",
		Buckets: m.histogramBuckets,
	})

	m.sessionsRecorded = prometheus.NewCounterVec(factory("sessions_recorded_total", "Activity records inserted, by kind."), []string{"kind"})
	m.duplicateSessions = prometheus.NewCounter(factory("duplicate_sessions_total", "Session inserts suppressed by the idempotency guard."))
	m.storeRetries = prometheus.NewCounter(factory("store_write_retries_total", "Store write attempts beyond the first."))
	m.storeFailures = prometheus.NewCounter(factory("store_write_failures_total", "Store writes that exhausted their retry budget."))

	m.combosGenerated = prometheus.NewCounter(factory("combos_generated_total", "Anti-repetition checked session generations."))
	m.comboDuplicatesRejected = prometheus.NewCounter(factory("combo_duplicates_rejected_total", "Candidate sessions rejected as duplicates."))
	m.comboFallbacks = prometheus.NewCounter(factory("combo_fallbacks_total", "Sessions accepted via fallback after the retry ceiling."))

	if !m.enabled {
		return
	}
	m.registry.MustRegister(
		m.snapshotsComputed, m.snapshotLatency, m.decayApplications, m.invariantViolations,
		m.gateDecisions, m.contentRankings, m.difficultyAdvice, m.quotaLatency,
		m.sessionsRecorded, m.duplicateSessions, m.storeRetries, m.storeFailures,
		m.combosGenerated, m.comboDuplicatesRejected, m.comboFallbacks,
	)
}

// Package-level recording helpers on the global manager.

// RecordSnapshotComputed counts one computed snapshot.
func RecordSnapshotComputed() {
	globalManager.snapshotsComputed.Inc()
}

// RecordSnapshotLatency observes one snapshot computation duration in seconds.
func RecordSnapshotLatency(seconds float64) {
	globalManager.snapshotLatency.Observe(seconds)
}

// RecordDecayApplied counts one RQ decay application.
func RecordDecayApplied() {
	globalManager.decayApplications.Inc()
}

// RecordInvariantViolation counts a pre-clamp out-of-range score.
func RecordInvariantViolation() {
	globalManager.invariantViolations.Inc()
}

// RecordGateDecision counts one game gate decision.
func RecordGateDecision(status, reason string) {
	globalManager.gateDecisions.WithLabelValues(status, reason).Inc()
}

// RecordContentRanking counts one content suggestion ranking.
func RecordContentRanking() {
	globalManager.contentRankings.Inc()
}

// RecordDifficultyAdvice counts one difficulty recommendation.
func RecordDifficultyAdvice(tier string) {
	globalManager.difficultyAdvice.WithLabelValues(tier).Inc()
}

// RecordQuotaLatency observes one cap recount duration in seconds.
func RecordQuotaLatency(seconds float64) {
	globalManager.quotaLatency.Observe(seconds)
}

// RecordSessionRecorded counts one inserted activity record.
func RecordSessionRecorded(kind string) {
	globalManager.sessionsRecorded.WithLabelValues(kind).Inc()
}

// RecordDuplicateSession counts one idempotency-suppressed insert.
func RecordDuplicateSession() {
	globalManager.duplicateSessions.Inc()
}

// RecordStoreRetry counts one store write retry.
func RecordStoreRetry() {
	globalManager.storeRetries.Inc()
}

// RecordStoreFailure counts one exhausted store write.
func RecordStoreFailure() {
	globalManager.storeFailures.Inc()
}

// RecordComboGenerated counts one checked session generation.
func RecordComboGenerated() {
	globalManager.combosGenerated.Inc()
}

// RecordComboDuplicateRejected counts rejected duplicate candidates.
func RecordComboDuplicateRejected(n int) {
	globalManager.comboDuplicatesRejected.Add(float64(n))
}

// RecordComboFallback counts one fallback accept.
func RecordComboFallback() {
	globalManager.comboFallbacks.Inc()
}

// GetRegistry returns the custom registry for exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
