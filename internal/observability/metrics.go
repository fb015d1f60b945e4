package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an
// enrichment run.
type Metrics struct {
	RecordsProcessed   prometheus.Counter
	RecordsSkipped     prometheus.Counter
	ParkOverrides      prometheus.Counter
	ResolutionFailures prometheus.Counter
	HomeSiteResolved   prometheus.Gauge
	EnrichmentComplete prometheus.Gauge

	// Callsign lookup metrics.
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss,error}
	CacheWriteErrors prometheus.Counter
	RemoteLookups    *prometheus.CounterVec // labels: outcome={success,error,malformed}
	RemoteDuration   prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the given registerer.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.RecordsProcessed,
		m.RecordsSkipped,
		m.ParkOverrides,
		m.ResolutionFailures,
		m.HomeSiteResolved,
		m.EnrichmentComplete,
		m.CacheLookups,
		m.CacheWriteErrors,
		m.RemoteLookups,
		m.RemoteDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "records_processed_total",
			Help:      "QSO records placed on the map.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "records_skipped_total",
			Help:      "QSO records dropped for lacking a callsign.",
		}),
		ParkOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "park_overrides_total",
			Help:      "Records whose coordinates came from the park reference table.",
		}),
		ResolutionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "resolution_failures_total",
			Help:      "Runs stopped by a callsign resolution failure.",
		}),
		HomeSiteResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "qsomap",
			Name:      "home_site_resolved",
			Help:      "1 when the home-site marker has coordinates, 0 otherwise.",
		}),
		EnrichmentComplete: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "qsomap",
			Name:      "enrichment_complete",
			Help:      "1 once the enrichment run has finished.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "geocache_lookups_total",
			Help:      "Geolocation cache lookups by result.",
		}, []string{"result"}),
		CacheWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "geocache_write_errors_total",
			Help:      "Failed writes to the geolocation cache.",
		}),
		RemoteLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsomap",
			Name:      "remote_lookups_total",
			Help:      "HamQTH DXCC lookups by outcome.",
		}, []string{"outcome"}),
		RemoteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qsomap",
			Name:      "remote_lookup_duration_seconds",
			Help:      "HamQTH DXCC request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
