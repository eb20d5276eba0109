// Package metrics exposes Prometheus collectors for the intake pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeSpam     = "spam"
	OutcomeFailed   = "failed"
)

// Notification outcomes
const (
	NotifySent    = "sent"
	NotifyFailed  = "failed"
	NotifySkipped = "skipped"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "intake_submissions_total", Help: "Form submissions by kind and outcome"},
		[]string{"kind", "outcome"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "intake_notifications_total", Help: "Notification attempts by kind and outcome"},
		[]string{"kind", "outcome"},
	)
	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "intake_rate_limited_total", Help: "Requests rejected by the rate limiter"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(SubmissionsTotal, NotificationsTotal, RateLimitedTotal, RequestDuration)
}
