package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Posting sources
const (
	SourceManual      = "manual"
	SourceRecurring   = "recurring"
	SourceInstallment = "installment"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	PostingsCreated *prometheus.CounterVec
	PostingsDeleted prometheus.Counter

	// Credit limit metrics
	LimitReserved       prometheus.Counter
	LimitReleased       prometheus.Counter
	AdmissionRejections *prometheus.CounterVec

	// Sync metrics
	SyncRuns            *prometheus.CounterVec
	SyncDuration        prometheus.Histogram
	SyncBlueprintErrors *prometheus.CounterVec
	ChargesSkipped      prometheus.Counter
	SyncLastSuccess     prometheus.Gauge

	// Installment metrics
	InstallmentPurchases prometheus.Counter
	InstallmentCount     prometheus.Histogram

	// Statement metrics
	StatementDuration prometheus.Histogram

	// Notification metrics
	NotificationsSent *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		PostingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_postings_created_total",
				Help: "Total number of postings created by source",
			},
			[]string{"source"},
		),
		PostingsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billcycle_postings_deleted_total",
			Help: "Total number of postings deleted",
		}),

		// Credit limit metrics
		LimitReserved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billcycle_limit_reserved_minor_units_total",
			Help: "Card limit reserved, in minor currency units",
		}),
		LimitReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billcycle_limit_released_minor_units_total",
			Help: "Card limit released, in minor currency units",
		}),
		AdmissionRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_admission_rejections_total",
				Help: "Charges refused by admission control by source",
			},
			[]string{"source"},
		),

		// Sync metrics
		SyncRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_sync_runs_total",
				Help: "Total sync runs by result",
			},
			[]string{"result"},
		),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "billcycle_sync_duration_seconds",
			Help:    "Duration of sync runs",
			Buckets: prometheus.DefBuckets,
		}),
		SyncBlueprintErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_sync_blueprint_errors_total",
				Help: "Blueprints that failed during sync by kind",
			},
			[]string{"kind"},
		),
		ChargesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billcycle_recurring_charges_skipped_total",
			Help: "Recurring charges blocked by insufficient card limit",
		}),
		SyncLastSuccess: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "billcycle_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful sync run",
		}),

		// Installment metrics
		InstallmentPurchases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billcycle_installment_purchases_total",
			Help: "Total number of installment purchases created",
		}),
		InstallmentCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "billcycle_installment_count",
			Help:    "Number of installments per purchase",
			Buckets: []float64{1, 2, 3, 6, 10, 12, 18, 24, 36, 48},
		}),

		// Statement metrics
		StatementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "billcycle_statement_duration_seconds",
			Help:    "Duration of statement computations",
			Buckets: prometheus.DefBuckets,
		}),

		// Notification metrics
		NotificationsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_notifications_total",
				Help: "Notifications emitted by sink and status",
			},
			[]string{"sink", "status"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billcycle_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),
	}
}
