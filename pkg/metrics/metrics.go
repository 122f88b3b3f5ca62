package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vitour"

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_time_seconds",
			Help:      "Histogram of response times",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ToursBooked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tours_booked_total",
			Help:      "Tours booked, by whether a membership discount applied",
		},
		[]string{"discounted"},
	)

	BonusesPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonuses_paid_total",
			Help:      "Referral bonuses credited to referrers",
		},
	)

	BonusesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonuses_skipped_total",
			Help:      "Referral bonus attempts that paid nothing, by reason",
		},
		[]string{"reason"},
	)

	BonusFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_failures_total",
			Help:      "Referral bonus attempts that failed after the tour was booked",
		},
	)

	MembershipsDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memberships_deactivated_total",
			Help:      "Memberships flipped inactive by the lifecycle sweep",
		},
	)
)
