package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	AccountsRegistered    prometheus.Counter
	Logins                *prometheus.CounterVec
	ApplicationsSubmitted prometheus.Counter
	StatusUpdates         *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "passport_applications_submitted_total",
			Help: "Total number of passport applications submitted",
		}),
		StatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_application_status_updates_total",
			Help: "Application status updates by resulting status",
		}, []string{"status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passport_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementAccountsRegistered records a successful registration.
func (m *Metrics) IncrementAccountsRegistered() {
	m.AccountsRegistered.Inc()
}

// RecordLogin records a login attempt; result is "success", "failure" or "error".
func (m *Metrics) RecordLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementApplicationsSubmitted() {
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) RecordStatusUpdate(status string) {
	m.StatusUpdates.WithLabelValues(status).Inc()
}

// ObserveRequest records the duration of a request that started at start.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
