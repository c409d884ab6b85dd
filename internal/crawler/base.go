package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"travelscraper/offerworker/helpers"
	"travelscraper/offerworker/internal/extract"
	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/logger"
	scrapeerrors "travelscraper/offerworker/pkg/errors"
	"travelscraper/offerworker/services/cache"
)

// maxCandidates caps the links or containers read per document
const maxCandidates = 10

// Sample offers describe a week from 15 July 2026 out of Warsaw
var (
	sampleDeparture = time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)
	sampleDuration  = 7
	sampleCity      = "Warszawa"
	sampleMealPlan  = "All inclusive"
)

// BaseCrawler provides common functionality for all agency adapters
type BaseCrawler struct {
	Name       string
	BaseURL    string
	SearchPath string
	Fetcher    PageFetcher
	CacheSvc   cache.CacheService
	CacheKey   string
	BlockTime  time.Duration
	Validator  *NameValidator
	Samples    []SampleOffer
	Defaults   Defaults
	Logger     *logger.Logger
	Metrics    *obs.Metrics
}

// GetName returns the agency name
func (c *BaseCrawler) GetName() string {
	return c.Name
}

// GetBaseURL returns the agency home page
func (c *BaseCrawler) GetBaseURL() string {
	return c.BaseURL
}

// NameValidator returns the adapter's hotel-name policy
func (c *BaseCrawler) NameValidator() *NameValidator {
	return c.Validator
}

// BuildSearchURL returns base/<search path>/<country slug>/
func (c *BaseCrawler) BuildSearchURL(country string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.SearchPath + "/" + helpers.Slug(country) + "/"
}

func (c *BaseCrawler) log() *logger.Logger {
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c.Logger
}

// fetchWithCache fetches a page unless the agency is blocked after a
// recent rate limit response
func (c *BaseCrawler) fetchWithCache(ctx context.Context, url string) (*helpers.Page, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, scrapeerrors.NewRateLimit(c.Name, c.BlockTime)
		}
	}

	start := time.Now()
	page, err := c.Fetcher.Fetch(ctx, url, nil)
	c.Metrics.ObserveFetch(c.Name, time.Since(start).Seconds())
	if err != nil {
		if scrapeerrors.IsType(err, scrapeerrors.ErrorTypeRateLimit) && c.CacheSvc != nil && c.CacheKey != "" && c.BlockTime > 0 {
			if cerr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", int(c.BlockTime.Seconds()))), c.BlockTime); cerr != nil {
				c.log().Warn().Err(cerr).Str("cache_key", c.CacheKey).Msg("Failed to store rate limit block")
			}
		}
		return nil, err
	}

	return page, nil
}

// createDocument parses a fetched page
func (c *BaseCrawler) createDocument(page *helpers.Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(page.Reader())
	if err != nil {
		return nil, scrapeerrors.NewParsing(c.Name, "HTML parse error", err)
	}
	return doc, nil
}

// fetchAndExtract runs fetch, parse and the adapter's extractor for one
// country. Any failure means zero candidates for that country.
func (c *BaseCrawler) fetchAndExtract(ctx context.Context, country string, url string, extractor func(*goquery.Document, string) []Candidate) ([]Candidate, error) {
	if c.Fetcher == nil {
		return nil, scrapeerrors.NewConfiguration(c.Name+": no page fetcher", nil)
	}

	page, err := c.fetchWithCache(ctx, url)
	if err != nil {
		errType := string(scrapeerrors.TypeOf(err))
		if errType == "" {
			errType = string(scrapeerrors.ErrorTypeTransport)
		}
		c.Metrics.IncFetchFailure(c.Name, errType)
		return nil, fmt.Errorf("%s %s: %w", c.Name, country, err)
	}

	doc, err := c.createDocument(page)
	if err != nil {
		c.Metrics.IncFetchFailure(c.Name, string(scrapeerrors.ErrorTypeParsing))
		return nil, err
	}

	candidates := extractor(doc, country)
	c.Metrics.AddExtracted(c.Name, len(candidates))
	c.log().Info().
		Str("country", country).
		Str("url", page.FinalURL).
		Int("candidates", len(candidates)).
		Msg("Extracted candidates")

	return candidates, nil
}

// withFallback returns live candidates, or the sample offers when there
// are none
func (c *BaseCrawler) withFallback(live []Candidate, country string) []Candidate {
	if len(live) > 0 {
		return live
	}

	c.Metrics.IncSampleFallback(c.Name)
	c.log().Warn().
		Str("country", country).
		Int("samples", len(c.Samples)).
		Msg("No valid offers found, using sample offers")

	return c.sampleCandidates(country)
}

func (c *BaseCrawler) sampleCandidates(country string) []Candidate {
	out := make([]Candidate, 0, len(c.Samples))
	for _, s := range c.Samples {
		cand := Candidate{
			HotelName:       s.HotelName,
			DestinationName: s.DestinationName,
			Country:         country,
			Price:           s.Price,
			DepartureCity:   sampleCity,
			MealPlan:        sampleMealPlan,
			HasWifi:         true,
			HasSunbeds:      true,
			OfferURL:        extract.ResolveURL(c.BaseURL, s.Path),
			Provenance:      ProvenanceSample,
		}
		cand.SetSchedule(sampleDeparture, sampleDuration)
		out = append(out, cand)
	}
	return out
}

// newLiveCandidate builds a candidate from the fields found in an offer
// container; missing fields take the extractor defaults
func (c *BaseCrawler) newLiveCandidate(s *goquery.Selection, fields FieldSelectors, country string) Candidate {
	cand := Candidate{
		Country:         country,
		DestinationName: country,
		DepartureCity:   c.Defaults.DepartureCity,
		MealPlan:        c.Defaults.MealPlan,
		HasWifi:         true,
		HasSunbeds:      true,
		Provenance:      ProvenanceLive,
	}

	cand.Price = extract.ParsePrice(firstText(s, fields.Price...))

	days := extract.ParseDuration(firstText(s, fields.Duration...))
	cand.SetSchedule(extract.ParseDate(firstText(s, fields.Date...), days), days)

	if dest := firstText(s, fields.Destination...); dest != "" {
		cand.DestinationName = dest
	}
	if city := firstText(s, fields.City...); city != "" {
		cand.DepartureCity = city
	}
	if meal := firstText(s, fields.MealPlan...); meal != "" {
		cand.MealPlan = meal
	}

	return cand
}

// firstText returns the trimmed text of the first selector that matches
// something non-empty
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := helpers.CollapseSpaces(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstHref returns the href of the first matching anchor
func firstHref(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if href, ok := s.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}
	return ""
}

// linkName reads a hotel name from a link's title attribute or text
func linkName(link *goquery.Selection) string {
	if title, ok := link.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return helpers.CollapseSpaces(title)
	}
	return helpers.CollapseSpaces(link.Text())
}

// Options carries the collaborators shared by every adapter
type Options struct {
	BaseURL   string
	Fetcher   PageFetcher
	Cache     cache.CacheService
	BlockTime time.Duration
	Logger    *logger.Logger
	Metrics   *obs.Metrics
}

func newBaseCrawler(name, searchPath, cacheKey string, opts Options) BaseCrawler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return BaseCrawler{
		Name:       name,
		BaseURL:    opts.BaseURL,
		SearchPath: searchPath,
		Fetcher:    opts.Fetcher,
		CacheSvc:   opts.Cache,
		CacheKey:   cacheKey,
		BlockTime:  opts.BlockTime,
		Logger:     log.ForAgency(name),
		Metrics:    opts.Metrics,
	}
}

// Where listing links sit inside their result tiles
const linkContainer = `article, li, [class*="offer"], [class*="tile"], [class*="card"]`

var linkOfferFields = FieldSelectors{
	Price:    []string{`.price-value`, `[class*="price"]`},
	Date:     []string{`.departure-date`, `[class*="date"]`, `[class*="term"]`},
	Duration: []string{`.duration`, `[class*="duration"]`, `[class*="days"]`, `[class*="dni"]`},
	City:     []string{`.departure__city`, `.departure-city`, `[class*="airport"]`, `[class*="city"]`},
	MealPlan: []string{`.food-type`, `.meal-plan`, `[class*="meal"]`, `[class*="food"]`, `[class*="board"]`, `[class*="wyzywienie"]`},
}

// linkCandidate builds a candidate for a listing link, reading the other
// fields from the link's result tile
func (c *BaseCrawler) linkCandidate(link *goquery.Selection, href, name, country string) Candidate {
	container := link.Closest(linkContainer)
	if container.Length() == 0 {
		container = link
	}

	cand := c.newLiveCandidate(container, linkOfferFields, country)
	cand.HotelName = name
	cand.OfferURL = extract.ResolveURL(c.BaseURL, href)
	return cand
}
