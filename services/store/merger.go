package store

import (
	"context"
	"time"

	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/internal/pipeline"
	"travelscraper/offerworker/logger"
)

// MergeStats summarises one Save call
type MergeStats struct {
	Created int
	Updated int
	Skipped int

	// Merged holds the results that were stored, in input order
	Merged []pipeline.Result
}

// Saved returns the number of stored offers
func (s MergeStats) Saved() int {
	return s.Created + s.Updated
}

// Merger writes pipeline results into the catalog
type Merger struct {
	store   Store
	logger  *logger.Logger
	metrics *obs.Metrics
	now     func() time.Time
}

// NewMerger creates a merger over a store
func NewMerger(s Store, log *logger.Logger, metrics *obs.Metrics) *Merger {
	if log == nil {
		log = logger.Nop()
	}
	return &Merger{
		store:   s,
		logger:  log.ForComponent("merger"),
		metrics: metrics,
		now:     time.Now,
	}
}

type agencyRef struct {
	name, website string
}

// Save upserts every result inside one transaction. A record that fails is
// logged and skipped without undoing the records around it. Every stored
// offer gets the same collection timestamp.
func (m *Merger) Save(ctx context.Context, results []pipeline.Result) (MergeStats, error) {
	var stats MergeStats
	if len(results) == 0 {
		return stats, nil
	}

	tx, err := m.store.Begin(ctx)
	if err != nil {
		return stats, err
	}

	scrapedAt := m.now().UTC()
	agencies := map[agencyRef]int64{}
	destinations := map[destinationKey]int64{}

	for _, r := range results {
		var (
			agencyID, destinationID int64
			created                 bool
		)
		aKey := agencyRef{r.Agency, r.AgencyURL}
		dKey := destinationKey{r.Offer.DestinationName, r.Offer.Country}

		err := tx.Guard(ctx, func() error {
			var err error
			if id, ok := agencies[aKey]; ok {
				agencyID = id
			} else if agencyID, err = tx.GetOrCreateAgency(ctx, r.Agency, r.AgencyURL); err != nil {
				return err
			}

			if id, ok := destinations[dKey]; ok {
				destinationID = id
			} else if destinationID, err = tx.GetOrCreateDestination(ctx, dKey.name, dKey.country); err != nil {
				return err
			}

			created, err = tx.UpsertOffer(ctx, StoredOffer{
				HotelName:     r.Offer.HotelName,
				DestinationID: destinationID,
				AgencyID:      agencyID,
				DepartureDate: r.Offer.DepartureDate,
				ReturnDate:    r.Offer.ReturnDate,
				DepartureCity: r.Offer.DepartureCity,
				Price:         r.Offer.Price,
				Duration:      r.Offer.Duration,
				MealPlan:      r.Offer.MealPlan,
				HasWifi:       r.Offer.HasWifi,
				HasSunbeds:    r.Offer.HasSunbeds,
				OfferURL:      r.Offer.OfferURL,
				Provenance:    string(r.Offer.Provenance),
				ScrapeDate:    scrapedAt,
			})
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				tx.Rollback()
				return MergeStats{}, ctxErr
			}
			stats.Skipped++
			m.logger.Warn().
				Err(err).
				Str("agency", r.Agency).
				Str("hotel", r.Offer.HotelName).
				Msg("Skipping offer that could not be stored")
			continue
		}

		// ids only become reusable once the record that created them is kept
		agencies[aKey] = agencyID
		destinations[dKey] = destinationID

		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
		stats.Merged = append(stats.Merged, r)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return MergeStats{}, err
	}

	m.metrics.AddSaved(stats.Saved())
	m.metrics.AddSkipped(stats.Skipped)
	m.logger.Info().
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Msg("Merged offers")

	return stats, nil
}
