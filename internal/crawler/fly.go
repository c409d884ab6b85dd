package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"travelscraper/offerworker/internal/extract"
)

var flyFields = FieldSelectors{
	Container:   `div[class*="offer"], .offer-item, .offer-box`,
	Name:        []string{`.hotel-name`, `[class*="hotel"]`, `[class*="name"]`, `[class*="title"]`, `h1`, `h2`, `h3`, `h4`, `h5`, `strong`},
	Destination: []string{`.destination`, `[class*="destination"]`, `[class*="location"]`, `[class*="region"]`},
	Price:       []string{`.price-value`, `[class*="price"]`},
	Date:        []string{`.departure-date`, `[class*="date"]`, `[class*="term"]`},
	Duration:    []string{`.duration`, `[class*="duration"]`, `[class*="days"]`, `[class*="dni"]`},
	City:        []string{`.departure-city`, `[class*="airport"]`, `[class*="city"]`},
	MealPlan:    []string{`.meal-type`, `.board-type`, `[class*="meal"]`, `[class*="food"]`, `[class*="board"]`, `[class*="wyzywienie"]`},
	Link:        []string{`a.offer-link`, `a.details-link`, `a[href*="oferta"]`, `a[href*="offer"]`, `a[class*="offer"]`},
}

// FlyCrawler reads fly.pl search pages, which render every offer as a
// tile with separate fields. Tiles never get dropped on their name; a
// tile without one is kept as "Nieznany hotel".
type FlyCrawler struct {
	BaseCrawler
	Fields FieldSelectors
}

// NewFlyCrawler creates the fly.pl adapter
func NewFlyCrawler(opts Options) *FlyCrawler {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.fly.pl/"
	}
	base := newBaseCrawler("Fly.pl", "wczasy", "fly_rate_limited", opts)
	base.Validator = newAdvisoryValidator()
	base.Samples = flySamples
	base.Defaults = Defaults{HotelName: "Nieznany hotel", DepartureCity: "Katowice", MealPlan: "All inclusive"}
	return &FlyCrawler{BaseCrawler: base, Fields: flyFields}
}

// FetchCandidates fetches and extracts the search page for a country
func (c *FlyCrawler) FetchCandidates(ctx context.Context, country string) ([]Candidate, error) {
	return c.fetchAndExtract(ctx, country, c.BuildSearchURL(country), c.ExtractCandidates)
}

// ExtractCandidates reads offer tiles, falling back to sample offers
func (c *FlyCrawler) ExtractCandidates(doc *goquery.Document, country string) []Candidate {
	return c.withFallback(c.extractContainers(doc, country), country)
}

func (c *FlyCrawler) extractContainers(doc *goquery.Document, country string) []Candidate {
	// Both list wrappers (div.offers-list) and field boxes inside a tile
	// (div.offer-price) match the container selector. A wrapper holds
	// linked tiles; a field box sits inside a kept tile.
	matched := doc.Find(c.Fields.Container)
	tiles := matched.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(c.Fields.Container).Has("a[href]").Length() == 0
	})
	tiles = tiles.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Parents().FilterSelection(tiles).Length() == 0
	})
	c.log().Debug().Str("country", country).Int("tiles", tiles.Length()).Msg("Found offer tiles")

	var candidates []Candidate
	tiles.EachWithBreak(func(i int, tile *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}
		candidates = append(candidates, c.processTile(tile, country))
		return true
	})

	return candidates
}

func (c *FlyCrawler) processTile(tile *goquery.Selection, country string) Candidate {
	cand := c.newLiveCandidate(tile, c.Fields, country)

	cand.HotelName = firstText(tile, c.Fields.Name...)
	if cand.HotelName == "" {
		cand.HotelName = c.Defaults.HotelName
	}

	href := ""
	if goquery.NodeName(tile) == "a" {
		href = strings.TrimSpace(tile.AttrOr("href", ""))
	}
	if href == "" {
		href = firstHref(tile, c.Fields.Link...)
	}
	cand.OfferURL = extract.ResolveURL(c.BaseURL, href)

	if !c.Validator.IsValid(cand.HotelName) {
		c.log().Debug().Str("name", cand.HotelName).Msg("Tile name does not look like a hotel, keeping it")
	}

	return cand
}
