package pipeline

import (
	"context"
	"fmt"
	"time"

	"travelscraper/offerworker/internal/crawler"
	"travelscraper/offerworker/internal/normalizer"
	"travelscraper/offerworker/internal/profile"
	"travelscraper/offerworker/logger"
)

// Result is one normalized offer with the agency it came from
type Result struct {
	Agency    string           `json:"agency"`
	AgencyURL string           `json:"agency_url"`
	Offer     normalizer.Offer `json:"offer"`
}

// Pipeline runs every adapter for every country of a profile, one fetch at
// a time
type Pipeline struct {
	crawlers   []crawler.Crawler
	normalizer *normalizer.Normalizer
	logger     *logger.Logger
}

// New creates a pipeline over the given adapters
func New(crawlers []crawler.Crawler, norm *normalizer.Normalizer, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	if norm == nil {
		norm = normalizer.New(false, log, nil)
	}
	return &Pipeline{
		crawlers:   crawlers,
		normalizer: norm,
		logger:     log.ForComponent("pipeline"),
	}
}

// Run collects offers adapter by adapter and country by country. A failing
// adapter/country pair is logged and skipped. Only an invalid profile or a
// cancelled context returns an error; results gathered so far are returned
// with it.
func (p *Pipeline) Run(ctx context.Context, prof profile.SearchProfile) ([]Result, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var results []Result

	for _, c := range p.crawlers {
		for _, country := range prof.Countries {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			results = append(results, p.runPair(ctx, c, country, prof)...)
		}
	}

	p.logger.Info().
		Int("offers", len(results)).
		Int("agencies", len(p.crawlers)).
		Int("countries", len(prof.Countries)).
		Dur("duration", time.Since(start)).
		Msg("Pipeline finished")

	return results, nil
}

// runPair handles one adapter/country pair; a panic inside an adapter is
// treated like any other failure of that pair
func (p *Pipeline) runPair(ctx context.Context, c crawler.Crawler, country string, prof profile.SearchProfile) (results []Result) {
	agency := c.GetName()
	log := p.logger.ForAgency(agency).WithField("country", country)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(fmt.Errorf("panic: %v", r)).Msg("Adapter crashed, skipping country")
			results = nil
		}
	}()

	candidates, err := c.FetchCandidates(ctx, country)
	if err != nil {
		log.Warn().Err(err).Msg("No candidates for country")
		return nil
	}

	offers := p.normalizer.Normalize(agency, candidates, prof, c.NameValidator())
	log.Info().
		Int("candidates", len(candidates)).
		Int("offers", len(offers)).
		Msg("Country processed")

	results = make([]Result, 0, len(offers))
	for _, offer := range offers {
		results = append(results, Result{Agency: agency, AgencyURL: c.GetBaseURL(), Offer: offer})
	}
	return results
}

// CountSamples returns how many results came from sample offers
func CountSamples(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Offer.Provenance == crawler.ProvenanceSample {
			n++
		}
	}
	return n
}
