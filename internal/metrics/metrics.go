// Package metrics exposes Prometheus collectors for the orchestration
// kernel, grounded on the RED/USE-style counters, histograms, and gauges
// the pack's queue-recovery service tracks for its own worker pool.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric the HTTP adapter and workers record
// against.
type Collector struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	movesAccepted      prometheus.Counter
	movesRejected      prometheus.Counter
	persistenceLatency prometheus.Histogram
	liveMatches        prometheus.Gauge
	stashDepth         prometheus.Gauge
}

// NewCollector builds and registers every collector against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cambia_arena_http_requests_total",
			Help: "Total HTTP requests handled, by route and status class.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cambia_arena_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		movesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cambia_arena_moves_accepted_total",
			Help: "Total moves accepted by a MatchWorker.",
		}),
		movesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cambia_arena_moves_rejected_total",
			Help: "Total moves rejected by a MatchWorker (game-model errors).",
		}),
		persistenceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cambia_arena_persistence_latency_seconds",
			Help:    "Repository save/load latency as observed by the PersistenceWorker.",
			Buckets: prometheus.DefBuckets,
		}),
		liveMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cambia_arena_live_matches",
			Help: "Current number of in-progress matches held by the supervisor.",
		}),
		stashDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cambia_arena_supervisor_stash_depth",
			Help: "Commands currently stashed while the supervisor restores.",
		}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.movesAccepted,
		c.movesRejected,
		c.persistenceLatency,
		c.liveMatches,
		c.stashDepth,
	)
	return c
}

// ObserveRequest records one HTTP request's outcome and duration.
func (c *Collector) ObserveRequest(route, statusClass string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, statusClass).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordMoveAccepted() { c.movesAccepted.Inc() }
func (c *Collector) RecordMoveRejected() { c.movesRejected.Inc() }

func (c *Collector) ObservePersistence(duration time.Duration) {
	c.persistenceLatency.Observe(duration.Seconds())
}

func (c *Collector) SetLiveMatches(n int) { c.liveMatches.Set(float64(n)) }
func (c *Collector) SetStashDepth(n int)  { c.stashDepth.Set(float64(n)) }
