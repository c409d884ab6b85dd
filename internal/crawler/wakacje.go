package crawler

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"travelscraper/offerworker/helpers"
)

const (
	wakacjeHotelLinks    = `a[href*="hotele/"]`
	wakacjeFallbackLinks = `a[href*="hotel"], a[href*="oferta"], a[href*="wczasy"]`
)

var (
	wakacjeDestinationRe = regexp.MustCompile(`/hotele/[^/]+/([^/]+)/`)
	wakacjeHotelSlugRe   = regexp.MustCompile(`/hotele/(?:[^/]+/)*([^/?#]+?)\.html`)
)

// WakacjeCrawler reads wakacje.pl search pages. Only links to hotel
// detail pages (/hotele/<country>/<region>/<hotel>.html) are used, so a
// short denylist is enough.
type WakacjeCrawler struct {
	BaseCrawler
}

// NewWakacjeCrawler creates the wakacje.pl adapter
func NewWakacjeCrawler(opts Options) *WakacjeCrawler {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.wakacje.pl/"
	}
	base := newBaseCrawler("Wakacje.pl", "wczasy", "wakacje_rate_limited", opts)
	base.Validator = NewNameValidator(uiNoiseTerms)
	base.Samples = wakacjeSamples
	base.Defaults = Defaults{DepartureCity: "Warszawa", MealPlan: "All inclusive"}
	return &WakacjeCrawler{BaseCrawler: base}
}

// FetchCandidates fetches and extracts the search page for a country
func (c *WakacjeCrawler) FetchCandidates(ctx context.Context, country string) ([]Candidate, error) {
	return c.fetchAndExtract(ctx, country, c.BuildSearchURL(country), c.ExtractCandidates)
}

// ExtractCandidates reads hotel detail links, falling back to sample offers
func (c *WakacjeCrawler) ExtractCandidates(doc *goquery.Document, country string) []Candidate {
	return c.withFallback(c.extractLinks(doc, country), country)
}

// isHotelLink reports whether href points at a hotel detail page
func isHotelLink(href string) bool {
	return strings.Contains(href, "/hotele/") &&
		strings.Count(href, "/") >= 4 &&
		strings.Contains(href, ".html")
}

func (c *WakacjeCrawler) extractLinks(doc *goquery.Document, country string) []Candidate {
	links := doc.Find(wakacjeHotelLinks)
	if links.Length() == 0 {
		links = doc.Find(wakacjeFallbackLinks)
	}

	valid := links.FilterFunction(func(_ int, link *goquery.Selection) bool {
		return isHotelLink(link.AttrOr("href", ""))
	})
	c.log().Debug().
		Str("country", country).
		Int("links", links.Length()).
		Int("hotel_links", valid.Length()).
		Msg("Found hotel links")

	var candidates []Candidate
	valid.EachWithBreak(func(i int, link *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}

		href := strings.TrimSpace(link.AttrOr("href", ""))
		name := linkName(link)
		if utf8.RuneCountInString(name) < minNameLength {
			if m := wakacjeHotelSlugRe.FindStringSubmatch(href); m != nil {
				name = helpers.TitleFromSlug(m[1])
			}
		}

		if !c.Validator.IsValid(name) {
			c.log().Debug().Str("name", name).Str("href", href).Msg("Skipping link, not a hotel name")
			return true
		}

		cand := c.linkCandidate(link, href, name, country)
		if m := wakacjeDestinationRe.FindStringSubmatch(href); m != nil {
			cand.DestinationName = helpers.TitleFromSlug(m[1])
		}
		candidates = append(candidates, cand)
		return true
	})

	return candidates
}
