package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduler's application metrics.
type Metrics struct {
	// Reservation metrics
	ReservationsCreated  prometheus.Counter
	ReservationConflicts *prometheus.CounterVec
	ReservationStatus    *prometheus.CounterVec

	// Review metrics
	ReviewsCreated   prometheus.Counter
	ReviewDuplicates prometheus.Counter
	ReviewStatus     *prometheus.CounterVec

	// Transaction metrics
	TxAborts *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New registers every metric on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		ReservationsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Total number of reservations created",
		}),
		ReservationConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Total number of rejected reservations because the slot was taken",
		}, []string{"operation"}),
		ReservationStatus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Total number of reservation status transitions",
		}, []string{"status"}),

		ReviewsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created",
		}),
		ReviewDuplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_duplicates_total",
			Help:      "Total number of rejected duplicate reviews",
		}),
		ReviewStatus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_transitions_total",
			Help:      "Total number of review moderation transitions",
		}, []string{"status"}),

		TxAborts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_aborts_total",
			Help:      "Total number of transactions aborted after exhausting retries",
		}, []string{"operation"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
	}
}

// NewNop returns metrics bound to a private registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry(), "test")
}
