package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsCreated prometheus.Counter
	MovementsUpdated prometheus.Counter
	MovementsDeleted prometheus.Counter
	MovementAmount   prometheus.Histogram
	MovementErrors   *prometheus.CounterVec

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Balance verification metrics
	BalanceChecks    *prometheus.CounterVec
	BalanceRepairs   *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MovementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finper_movements_created_total",
			Help: "Total number of movements created",
		}),
		MovementsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finper_movements_updated_total",
			Help: "Total number of movements edited",
		}),
		MovementsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finper_movements_deleted_total",
			Help: "Total number of movements deleted",
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finper_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finper_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finper_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finper_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		BalanceChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finper_balance_checks_total",
				Help: "Total balance verifications by result",
			},
			[]string{"result"},
		),
		BalanceRepairs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finper_balance_repairs_total",
				Help: "Total balance repairs by kind",
			},
			[]string{"kind"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finper_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finper_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
