package observability

import (
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger client.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	sessionHits     *prometheus.CounterVec
	sessionMisses   *prometheus.CounterVec
	submitsTotal    *prometheus.CounterVec
	alertsTotal     *prometheus.CounterVec
	staleDiscarded  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_request_duration_seconds",
				Help:    "Duration of ledger API calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_external_errors_total",
				Help: "Total failed calls to the ledger API.",
			},
			[]string{"service"},
		),
		sessionHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_session_hits_total",
				Help: "Total requests served from an existing session state.",
			},
			[]string{"cache"},
		),
		sessionMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_session_misses_total",
				Help: "Total requests that had to start a new session state.",
			},
			[]string{"cache"},
		),
		submitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_submits_total",
				Help: "Total transaction submissions by outcome.",
			},
			[]string{"status"},
		),
		alertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_alerts_total",
				Help: "Total user-facing alerts raised.",
			},
			[]string{"region"},
		),
		staleDiscarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_stale_responses_total",
				Help: "Responses dropped because a newer one was already rendered.",
			},
			[]string{"region"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrSessionHit increments the session cache hit counter.
func (m *Metrics) IncrSessionHit() {
	m.sessionHits.WithLabelValues("session").Inc()
}

// IncrSessionMiss increments the session cache miss counter.
func (m *Metrics) IncrSessionMiss() {
	m.sessionMisses.WithLabelValues("session").Inc()
}

// IncrSubmit counts a submission outcome: ok, rejected or error.
func (m *Metrics) IncrSubmit(status string) {
	m.submitsTotal.WithLabelValues(status).Inc()
}

// IncrAlert counts an alert raised for a render region.
func (m *Metrics) IncrAlert(region string) {
	m.alertsTotal.WithLabelValues(region).Inc()
}

// IncrStaleDiscarded counts a response that lost the ordering race.
func (m *Metrics) IncrStaleDiscarded(region string) {
	m.staleDiscarded.WithLabelValues(region).Inc()
}

// Snapshot returns the counters exposed by GET /v1/metrics/ledger.
// Prometheus counters are cumulative, so the period is always all_time.
func (m *Metrics) Snapshot() *domain.LedgerMetrics {
	hits := getCounterValue(m.sessionHits, "session")
	misses := getCounterValue(m.sessionMisses, "session")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.LedgerMetrics{
		SubmitsOK:       int64(getCounterValue(m.submitsTotal, "ok")),
		SubmitsRejected: int64(getCounterValue(m.submitsTotal, "rejected")),
		SubmitsFailed:   int64(getCounterValue(m.submitsTotal, "error")),
		Alerts:          int64(sumCounter(m.alertsTotal, "transactions", "summary", "submit")),
		StaleDiscarded:  int64(sumCounter(m.staleDiscarded, "transactions", "summary")),
		ExternalErrors:  int64(sumCounter(m.externalErrors, "transactions", "summary", "create")),
		SessionHitRate:  hitRate,
		Period:          "all_time",
	}
}

func sumCounter(cv *prometheus.CounterVec, labels ...string) float64 {
	total := float64(0)
	for _, l := range labels {
		total += getCounterValue(cv, l)
	}
	return total
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
