// Package metrics exports Prometheus instrumentation for the ingestion
// and health pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedcore"

// Outcome labels for feed polls.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	FeedPolls         *prometheus.CounterVec
	ArticlesProcessed *prometheus.CounterVec
	OrphansDeleted    prometheus.Counter
	ArticlesPublished prometheus.Counter
	HealthScore       prometheus.Gauge
	QueueDepth        prometheus.Gauge
	RunDuration       prometheus.Histogram
}

// New creates and registers the collectors. A nil registerer falls back
// to the global default, which is what production uses; tests pass their
// own registry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	gatherer := prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,

		FeedPolls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_polls_total",
			Help:      "Total feed polls by outcome",
		}, []string{"outcome"}),

		ArticlesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_processed_total",
			Help:      "Articles leaving the pipeline by resulting status",
		}, []string{"status"}),

		OrphansDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphans_deleted_total",
			Help:      "Articles removed because their source feed is inactive",
		}),

		ArticlesPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_published_total",
			Help:      "Articles advanced to published by the backfill step",
		}),

		HealthScore: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "health_score",
			Help:      "Aggregate system health score at the last snapshot",
		}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Queued articles at the last snapshot",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_run_duration_seconds",
			Help:      "Duration of one ingestion run",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// Handler returns the scrape endpoint handler for the registry the
// collectors are registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordFeedPoll counts one feed poll.
func (m *Metrics) RecordFeedPoll(success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	m.FeedPolls.WithLabelValues(outcome).Inc()
}

// RecordItem counts one article leaving the pipeline.
func (m *Metrics) RecordItem(status string) {
	m.ArticlesProcessed.WithLabelValues(status).Inc()
}

// RecordOrphansDeleted counts articles removed by the reconciler.
func (m *Metrics) RecordOrphansDeleted(count int64) {
	m.OrphansDeleted.Add(float64(count))
}

// RecordPublished counts articles advanced by the backfill step.
func (m *Metrics) RecordPublished(count int64) {
	m.ArticlesPublished.Add(float64(count))
}

// SetHealthScore records the latest aggregate score.
func (m *Metrics) SetHealthScore(score int) {
	m.HealthScore.Set(float64(score))
}

// SetQueueDepth records the latest queued-article count.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// ObserveRunDuration records how long one ingestion run took.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}
