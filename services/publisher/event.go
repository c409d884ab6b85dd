package publisher

import (
	"context"
	"encoding/json"
	"time"

	"travelscraper/offerworker/internal/pipeline"
	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

// EventKey is the stream field offer events are stored under
const EventKey = "b64_offer"

// OfferEvent announces one stored offer
type OfferEvent struct {
	RunID       string          `json:"run_id"`
	Agency      string          `json:"agency"`
	AgencyURL   string          `json:"agency_url"`
	CollectedAt time.Time       `json:"collected_at"`
	Offer       json.RawMessage `json:"offer"`
}

// NewOfferEvent builds the event for a pipeline result
func NewOfferEvent(runID string, r pipeline.Result, collectedAt time.Time) (OfferEvent, error) {
	offer, err := json.Marshal(r.Offer)
	if err != nil {
		return OfferEvent{}, err
	}
	return OfferEvent{
		RunID:       runID,
		Agency:      r.Agency,
		AgencyURL:   r.AgencyURL,
		CollectedAt: collectedAt.UTC(),
		Offer:       offer,
	}, nil
}

// PublishOffers publishes one event per result and returns how many were
// published. It stops at the first failure.
func PublishOffers(ctx context.Context, p Publisher, runID string, results []pipeline.Result, collectedAt time.Time) (int, error) {
	for i, r := range results {
		event, err := NewOfferEvent(runID, r, collectedAt)
		if err != nil {
			return i, scrapeerrors.NewPublisher("encode offer event", err)
		}
		data, err := json.Marshal(event)
		if err != nil {
			return i, scrapeerrors.NewPublisher("encode offer event", err)
		}
		if err := p.Publish(ctx, EventKey, data); err != nil {
			return i, err
		}
	}
	return len(results), nil
}
