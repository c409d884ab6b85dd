package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelscraper/offerworker/internal/crawler"
	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/internal/pipeline"
	"travelscraper/offerworker/internal/profile"
	"travelscraper/offerworker/services/publisher"
	"travelscraper/offerworker/services/store"
)

// MockCrawler returns the same candidates for every country
type MockCrawler struct {
	name       string
	candidates []crawler.Candidate
	fetchErr   error
}

// Ensure MockCrawler implements crawler.Crawler
var _ crawler.Crawler = (*MockCrawler)(nil)

func (m *MockCrawler) GetName() string                      { return m.name }
func (m *MockCrawler) GetBaseURL() string                   { return "https://" + m.name + "/" }
func (m *MockCrawler) BuildSearchURL(country string) string { return m.GetBaseURL() + country }
func (m *MockCrawler) NameValidator() *crawler.NameValidator {
	return crawler.NewNameValidator(nil)
}

func (m *MockCrawler) ExtractCandidates(doc *goquery.Document, country string) []crawler.Candidate {
	return m.candidates
}

func (m *MockCrawler) FetchCandidates(ctx context.Context, country string) ([]crawler.Candidate, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]crawler.Candidate, len(m.candidates))
	for i, c := range m.candidates {
		c.Country = country
		out[i] = c
	}
	return out, nil
}

// MockPublisher records published messages
type MockPublisher struct {
	mu         sync.Mutex
	messages   [][]byte
	trimmed    int
	publishErr error
}

// Ensure MockPublisher implements publisher.Publisher
var _ publisher.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.messages = append(m.messages, append([]byte(nil), message...))
	return nil
}

func (m *MockPublisher) TrimStreams(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func candidate(name string, provenance crawler.Provenance) crawler.Candidate {
	c := crawler.Candidate{
		HotelName:       name,
		DestinationName: "Hurghada",
		Price:           decimal.RequireFromString("3199.00"),
		DepartureCity:   "Warszawa",
		MealPlan:        "All inclusive",
		Provenance:      provenance,
	}
	c.SetSchedule(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 7)
	return c
}

func testProfile() profile.SearchProfile {
	p := profile.Default()
	p.Countries = []string{"Egipt", "Turcja"}
	return p
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	pub := &MockPublisher{}

	crawlers := []crawler.Crawler{
		&MockCrawler{name: "a", candidates: []crawler.Candidate{
			candidate("Albatros Palace", crawler.ProvenanceLive),
			candidate("Hotel Kotva", crawler.ProvenanceSample),
		}},
		&MockCrawler{name: "b", fetchErr: errors.New("status 503")},
	}

	w := NewWorker(Options{
		Pipeline:  pipeline.New(crawlers, nil, nil),
		Store:     mem,
		Publisher: pub,
		Metrics:   obs.NewMetrics(prometheus.NewRegistry()),
	})

	summary, err := w.Collect(ctx, testProfile())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.Found)
	assert.Equal(t, 2, summary.Samples)
	assert.Equal(t, 4, summary.Saved)
	assert.Equal(t, 4, summary.Created)
	assert.Equal(t, 4, summary.Published)
	assert.Len(t, pub.messages, 4)
	assert.Equal(t, 1, pub.trimmed)

	runs := mem.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, summary.RunID, runs[0].ID)
	assert.Equal(t, store.RunStatusOK, runs[0].Status)
	assert.Equal(t, 2, runs[0].Samples)

	// the same data again only updates rows
	summary, err = w.Collect(ctx, testProfile())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Updated)
	count, _ := mem.CountOffers(ctx)
	assert.Equal(t, 4, count)
}

func TestCollectKeepsOffersWhenPublishFails(t *testing.T) {
	mem := store.NewMemory()
	w := NewWorker(Options{
		Pipeline: pipeline.New([]crawler.Crawler{&MockCrawler{name: "a", candidates: []crawler.Candidate{
			candidate("Albatros Palace", crawler.ProvenanceLive),
		}}}, nil, nil),
		Store:     mem,
		Publisher: &MockPublisher{publishErr: errors.New("redis down")},
	})

	summary, err := w.Collect(context.Background(), testProfile())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Saved)
	assert.Zero(t, summary.Published)
}

func TestCollectInvalidProfileRecordsFailedRun(t *testing.T) {
	mem := store.NewMemory()
	w := NewWorker(Options{Pipeline: pipeline.New(nil, nil, nil), Store: mem})

	prof := profile.Default()
	prof.MinDuration = 0

	_, err := w.Collect(context.Background(), prof)
	assert.Error(t, err)

	runs := mem.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunStatusFailed, runs[0].Status)
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	w := NewWorker(Options{Pipeline: pipeline.New(nil, nil, nil), Store: mem})

	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	require.NoError(t, mem.RecordRun(ctx, store.Run{ID: "old", StartedAt: now.AddDate(0, 0, -8)}))
	require.NoError(t, mem.RecordRun(ctx, store.Run{ID: "recent", StartedAt: now.AddDate(0, 0, -1)}))

	deleted, err := w.Cleanup(ctx, 168*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, mem.Runs(), 1)
}
