package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tool_rental"

var (
	once sync.Once

	rentalCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rental_created_total",
			Help:      "Count of rentals created by initial status.",
		},
		[]string{"status"},
	)

	rentalDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rental_decision_total",
			Help:      "Count of approve/reject decisions over reservations.",
		},
		[]string{"decision"},
	)

	rentalAction = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rental_action_total",
			Help:      "Count of lifecycle actions applied to rentals.",
		},
		[]string{"action"},
	)

	loginAttempt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempt_total",
			Help:      "Count of login attempts by result.",
		},
		[]string{"result"},
	)

	notificationEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_enqueued_total",
			Help:      "Count of notifications enqueued by type.",
		},
		[]string{"type"},
	)

	directoryFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_fetch_total",
			Help:      "Count of employee directory fetches by result.",
		},
		[]string{"result"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			rentalCreated,
			rentalDecision,
			rentalAction,
			loginAttempt,
			notificationEnqueued,
			directoryFetch,
			requestDuration,
		)
	})
}

func IncRentalCreated(status string) {
	rentalCreated.WithLabelValues(status).Inc()
}

func IncRentalDecision(decision string) {
	rentalDecision.WithLabelValues(decision).Inc()
}

func IncRentalAction(action string) {
	rentalAction.WithLabelValues(action).Inc()
}

func IncLoginAttempt(result string) {
	loginAttempt.WithLabelValues(result).Inc()
}

func AddNotificationsEnqueued(kind string, n int) {
	notificationEnqueued.WithLabelValues(kind).Add(float64(n))
}

func IncDirectoryFetch(result string) {
	directoryFetch.WithLabelValues(result).Inc()
}

func ObserveRequest(method, route, status string, seconds float64) {
	requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
