package crawler

import (
	"travelscraper/offerworker/config"
	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/logger"
	"travelscraper/offerworker/services/cache"
)

// CreateCrawlers creates the agency adapters in pipeline order
func CreateCrawlers(cfg *config.Config, fetcher PageFetcher, cacheSvc cache.CacheService, log *logger.Logger, metrics *obs.Metrics) []Crawler {
	opts := func(baseURL string) Options {
		return Options{
			BaseURL:   baseURL,
			Fetcher:   fetcher,
			Cache:     cacheSvc,
			BlockTime: cfg.RateLimitBlockTime,
			Logger:    log,
			Metrics:   metrics,
		}
	}

	crawlers := []Crawler{
		NewTravelplanetCrawler(opts(cfg.TravelplanetURL)),
		NewWakacjeCrawler(opts(cfg.WakacjeURL)),
		NewFlyCrawler(opts(cfg.FlyURL)),
	}

	if log != nil {
		for i, c := range crawlers {
			log.Debug().
				Int("index", i).
				Str("agency", c.GetName()).
				Str("base_url", c.GetBaseURL()).
				Int("denylist_terms", c.NameValidator().Len()).
				Msg("Created crawler")
		}
	}

	return crawlers
}
