package obs

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.AddExtracted("Fly.pl", 4)
	m.IncSampleFallback("Fly.pl")
	m.IncFetchFailure("Fly.pl", "transport")
	m.AddSaved(3)

	body := scrape(t, m)
	assert.Contains(t, body, `offers_extracted_total{agency="Fly.pl"} 4`)
	assert.Contains(t, body, `sample_fallbacks_total{agency="Fly.pl"} 1`)
	assert.Contains(t, body, `fetch_failures_total{agency="Fly.pl",type="transport"} 1`)
	assert.Contains(t, body, "offers_saved_total 3")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddExtracted("x", 1)
		m.IncRejected("x", "name")
		m.ObserveFetch("x", 0.5)
		m.RunFinished("ok", 1)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RunFinished("ok", 1700000000)

	assert.Contains(t, scrape(t, m), `collection_runs_total{status="ok"} 1`)
}
