package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelscraper/offerworker/internal/crawler"
	"travelscraper/offerworker/internal/normalizer"
	"travelscraper/offerworker/internal/pipeline"
)

type recordingPublisher struct {
	keys     []string
	messages [][]byte
	failAt   int
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, message []byte) error {
	if r.failAt > 0 && len(r.messages)+1 == r.failAt {
		return errors.New("stream unavailable")
	}
	r.keys = append(r.keys, key)
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingPublisher) TrimStreams(ctx context.Context) error { return nil }
func (r *recordingPublisher) Close() error                          { return nil }

func sampleResults() []pipeline.Result {
	c := crawler.Candidate{
		HotelName:       "Hotel Kotva",
		DestinationName: "Słoneczny Brzeg",
		Country:         "Bułgaria",
		Price:           decimal.RequireFromString("1899.99"),
		DepartureCity:   "Katowice",
		MealPlan:        "all inclusive",
		Provenance:      crawler.ProvenanceSample,
	}
	c.SetSchedule(time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC), 7)
	r := pipeline.Result{Agency: "Wakacje.pl", AgencyURL: "https://www.wakacje.pl/", Offer: normalizer.Offer{Candidate: c}}
	return []pipeline.Result{r, r}
}

func TestPublishOffers(t *testing.T) {
	pub := &recordingPublisher{}
	at := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	n, err := PublishOffers(context.Background(), pub, "run-1", sampleResults(), at)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{EventKey, EventKey}, pub.keys)

	var event struct {
		RunID       string    `json:"run_id"`
		Agency      string    `json:"agency"`
		CollectedAt time.Time `json:"collected_at"`
		Offer       struct {
			HotelName  string `json:"hotel_name"`
			Price      string `json:"price"`
			Provenance string `json:"provenance"`
		} `json:"offer"`
	}
	require.NoError(t, json.Unmarshal(pub.messages[0], &event))
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, "Wakacje.pl", event.Agency)
	assert.Equal(t, at, event.CollectedAt)
	assert.Equal(t, "Hotel Kotva", event.Offer.HotelName)
	assert.Equal(t, "1899.99", event.Offer.Price)
	assert.Equal(t, "sample", event.Offer.Provenance)
}

func TestPublishOffersStopsOnFailure(t *testing.T) {
	pub := &recordingPublisher{failAt: 2}

	n, err := PublishOffers(context.Background(), pub, "run-2", sampleResults(), time.Now())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), EventKey, []byte("x")))
	assert.NoError(t, p.TrimStreams(context.Background()))
	assert.NoError(t, p.Close())
}
