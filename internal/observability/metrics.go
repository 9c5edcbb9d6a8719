package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	loginsTotal       *prometheus.CounterVec
	reportsGenerated  prometheus.Counter
	summariesComputed prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_logins_total",
			Help: "Login attempts partitioned by outcome.",
		}, []string{"outcome"})

		reportsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "api_student_reports_generated_total",
			Help: "Student reports derived from term results.",
		})

		summariesComputed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "api_class_performance_generated_total",
			Help: "Class performance summaries derived from term results.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, loginsTotal, reportsGenerated, summariesComputed)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// Logins exposes the login outcome counter.
func Logins() *prometheus.CounterVec {
	RegisterMetrics()
	return loginsTotal
}

// ReportsGenerated exposes the student report counter.
func ReportsGenerated() prometheus.Counter {
	RegisterMetrics()
	return reportsGenerated
}

// SummariesComputed exposes the class performance counter.
func SummariesComputed() prometheus.Counter {
	RegisterMetrics()
	return summariesComputed
}
