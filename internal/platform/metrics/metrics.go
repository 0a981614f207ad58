package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FeedRequests      *prometheus.CounterVec
	FeedProblems      prometheus.Histogram
	TallyLatency      prometheus.Histogram
	ProblemsReported  prometheus.Counter
	VerificationsCast *prometheus.CounterVec
	UsersRegistered   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		FeedRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "citywatch_feed_requests_total",
			Help: "Total viewport feed requests, labeled by outcome",
		}, []string{"outcome"}),
		FeedProblems: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "citywatch_feed_problems",
			Help:    "Number of problems returned per feed request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		TallyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "citywatch_tally_fanout_seconds",
			Help:    "Wall time of the per-request verification tally fan-out",
			Buckets: prometheus.DefBuckets,
		}),
		ProblemsReported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "citywatch_problems_reported_total",
			Help: "Total problem reports created",
		}),
		VerificationsCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "citywatch_verifications_cast_total",
			Help: "Total verifications created or changed, labeled by verdict",
		}, []string{"verdict"}),
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "citywatch_users_registered_total",
			Help: "Total users registered",
		}),
	}
}

// ObserveFeed records one feed request outcome and its fan-out latency.
func (m *Metrics) ObserveFeed(outcome string, problems int, fanout time.Duration) {
	if m == nil {
		return
	}
	m.FeedRequests.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.FeedProblems.Observe(float64(problems))
		m.TallyLatency.Observe(fanout.Seconds())
	}
}

// IncVerificationsCast records a cast or changed vote.
func (m *Metrics) IncVerificationsCast(verified bool) {
	if m == nil {
		return
	}
	verdict := "no"
	if verified {
		verdict = "yes"
	}
	m.VerificationsCast.WithLabelValues(verdict).Inc()
}

// IncProblemsReported increments the problem report counter by 1.
func (m *Metrics) IncProblemsReported() {
	if m == nil {
		return
	}
	m.ProblemsReported.Inc()
}

// IncUsersRegistered increments the registration counter by 1.
func (m *Metrics) IncUsersRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}
