package crawler

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"travelscraper/offerworker/helpers"
)

const travelplanetLinks = `a[href*="hotel"], a[href*="oferta"], a[href*="wakacje"]`

var travelplanetHotelPathRe = regexp.MustCompile(`/hotel[^/]*/([^/?#]+)`)

// TravelplanetCrawler reads travelplanet.pl search pages. Its result pages
// mix hotel links with a lot of promotional and destination links, so it
// runs the long denylist.
type TravelplanetCrawler struct {
	BaseCrawler
}

// NewTravelplanetCrawler creates the travelplanet.pl adapter
func NewTravelplanetCrawler(opts Options) *TravelplanetCrawler {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.travelplanet.pl/"
	}
	base := newBaseCrawler("Travelplanet", "wakacje", "travelplanet_rate_limited", opts)
	base.Validator = NewNameValidator(travelplanetDenylist)
	base.Samples = travelplanetSamples
	base.Defaults = Defaults{DepartureCity: "Warszawa", MealPlan: "All inclusive"}
	return &TravelplanetCrawler{BaseCrawler: base}
}

// FetchCandidates fetches and extracts the search page for a country
func (c *TravelplanetCrawler) FetchCandidates(ctx context.Context, country string) ([]Candidate, error) {
	return c.fetchAndExtract(ctx, country, c.BuildSearchURL(country), c.ExtractCandidates)
}

// ExtractCandidates reads hotel links, falling back to sample offers
func (c *TravelplanetCrawler) ExtractCandidates(doc *goquery.Document, country string) []Candidate {
	return c.withFallback(c.extractLinks(doc, country), country)
}

func (c *TravelplanetCrawler) extractLinks(doc *goquery.Document, country string) []Candidate {
	links := doc.Find(travelplanetLinks)
	c.log().Debug().Int("links", links.Length()).Str("country", country).Msg("Found hotel links")

	var candidates []Candidate
	links.EachWithBreak(func(i int, link *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}

		href := strings.TrimSpace(link.AttrOr("href", ""))
		name := linkName(link)
		if utf8.RuneCountInString(name) < minNameLength {
			if m := travelplanetHotelPathRe.FindStringSubmatch(href); m != nil {
				name = helpers.TitleFromSlug(strings.TrimSuffix(m[1], ".html"))
			}
		}

		if !c.Validator.IsValid(name) {
			c.log().Debug().Str("name", name).Str("href", href).Msg("Skipping link, not a hotel name")
			return true
		}

		candidates = append(candidates, c.linkCandidate(link, href, name, country))
		return true
	})

	return candidates
}
