package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Retention metrics
	RecordsMarked *prometheus.CounterVec
	RecordsPurged *prometheus.CounterVec

	// Auth metrics
	LoginAttempts  *prometheus.CounterVec
	SessionsActive prometheus.Gauge

	// RBAC metrics
	MutationsDenied *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RecordsMarked: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_marked_for_deletion_total",
			Help:      "Records soft-deleted, by entity kind",
		}, []string{"entity"}),
		RecordsPurged: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_purged_total",
			Help:      "Records hard-deleted after their retention window elapsed, by entity kind",
		}, []string{"entity"}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Currently authenticated sessions",
		}),
		MutationsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_denied_total",
			Help:      "Mutations rejected by the admin gate, by entity kind",
		}, []string{"entity"}),
	}
}
