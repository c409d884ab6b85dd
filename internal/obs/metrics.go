package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors for a collection run. A nil *Metrics
// accepts every call and records nothing.
type Metrics struct {
	OffersExtracted  *prometheus.CounterVec
	OffersNormalized *prometheus.CounterVec
	OffersRejected   *prometheus.CounterVec
	SampleFallbacks  *prometheus.CounterVec
	FetchFailures    *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec

	OffersSaved   prometheus.Counter
	OffersSkipped prometheus.Counter
	Runs          *prometheus.CounterVec
	LastRunTime   prometheus.Gauge

	Registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on p
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		OffersExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offers_extracted_total",
			Help: "Raw candidates extracted per agency",
		}, []string{"agency"}),
		OffersNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offers_normalized_total",
			Help: "Candidates that passed normalization per agency",
		}, []string{"agency"}),
		OffersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offers_rejected_total",
			Help: "Candidates dropped during normalization",
		}, []string{"agency", "reason"}),
		SampleFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sample_fallbacks_total",
			Help: "Documents that yielded no live candidates and fell back to sample offers",
		}, []string{"agency"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Failed page fetches per agency and error type",
		}, []string{"agency", "type"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Search page fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"agency"}),
		OffersSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offers_saved_total",
			Help: "Offers upserted into the store",
		}),
		OffersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offers_skipped_total",
			Help: "Offers skipped after a per-record persistence failure",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collection_runs_total",
			Help: "Collection runs by outcome",
		}, []string{"status"}),
		LastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "collection_last_run_timestamp_seconds",
			Help: "Unix time the last collection run finished",
		}),
		Registry: p,
	}

	p.MustRegister(
		m.OffersExtracted,
		m.OffersNormalized,
		m.OffersRejected,
		m.SampleFallbacks,
		m.FetchFailures,
		m.FetchDuration,
		m.OffersSaved,
		m.OffersSkipped,
		m.Runs,
		m.LastRunTime,
	)

	return m
}

func (m *Metrics) AddExtracted(agency string, n int) {
	if m == nil {
		return
	}
	m.OffersExtracted.WithLabelValues(agency).Add(float64(n))
}

func (m *Metrics) AddNormalized(agency string, n int) {
	if m == nil {
		return
	}
	m.OffersNormalized.WithLabelValues(agency).Add(float64(n))
}

func (m *Metrics) IncRejected(agency, reason string) {
	if m == nil {
		return
	}
	m.OffersRejected.WithLabelValues(agency, reason).Inc()
}

func (m *Metrics) IncSampleFallback(agency string) {
	if m == nil {
		return
	}
	m.SampleFallbacks.WithLabelValues(agency).Inc()
}

func (m *Metrics) IncFetchFailure(agency, errType string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(agency, errType).Inc()
}

func (m *Metrics) ObserveFetch(agency string, seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(agency).Observe(seconds)
}

func (m *Metrics) AddSaved(n int) {
	if m == nil {
		return
	}
	m.OffersSaved.Add(float64(n))
}

func (m *Metrics) AddSkipped(n int) {
	if m == nil {
		return
	}
	m.OffersSkipped.Add(float64(n))
}

// RunFinished records the outcome of a collection run
func (m *Metrics) RunFinished(status string, unixTime float64) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(status).Inc()
	m.LastRunTime.Set(unixTime)
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
