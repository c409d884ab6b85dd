package crawler

import (
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"travelscraper/offerworker/helpers"
)

// Provenance tells live listings apart from built-in sample offers
type Provenance string

const (
	ProvenanceLive   Provenance = "live"
	ProvenanceSample Provenance = "sample"
)

// Candidate is an offer as extracted from one agency page, before
// normalization
type Candidate struct {
	HotelName       string          `json:"hotel_name"`
	DestinationName string          `json:"destination_name"`
	Country         string          `json:"country"`
	Price           decimal.Decimal `json:"price"`
	DepartureDate   time.Time       `json:"departure_date"`
	ReturnDate      time.Time       `json:"return_date"`
	Duration        int             `json:"duration"`
	DepartureCity   string          `json:"departure_city"`
	MealPlan        string          `json:"meal_plan"`
	HasWifi         bool            `json:"has_wifi"`
	HasSunbeds      bool            `json:"has_sunbeds"`
	OfferURL        string          `json:"offer_url"`
	Provenance      Provenance      `json:"provenance"`
}

// SetSchedule sets departure and duration and recomputes the return date
func (c *Candidate) SetSchedule(departure time.Time, days int) {
	c.DepartureDate = departure
	c.Duration = days
	c.ReturnDate = departure.AddDate(0, 0, days)
}

// Crawler is the contract shared by all agency adapters
type Crawler interface {
	// GetName returns the agency name used for logging and storage
	GetName() string

	// GetBaseURL returns the agency home page; it doubles as the stored website
	GetBaseURL() string

	// BuildSearchURL returns the search page for a country
	BuildSearchURL(country string) string

	// ExtractCandidates reads offers from a search page. It falls back to
	// the adapter's sample offers when nothing valid is found.
	ExtractCandidates(doc *goquery.Document, country string) []Candidate

	// FetchCandidates fetches the search page for a country and extracts it
	FetchCandidates(ctx context.Context, country string) ([]Candidate, error)

	// NameValidator returns the adapter's hotel-name policy
	NameValidator() *NameValidator
}

// PageFetcher retrieves a page; helpers.Fetcher is the production one
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (*helpers.Page, error)
}

// SampleOffer is one entry of an adapter's built-in fallback dataset
type SampleOffer struct {
	HotelName       string
	DestinationName string
	Price           decimal.Decimal
	// Path is resolved against the adapter's base URL
	Path string
}

// FieldSelectors holds prioritized selector chains for container-based
// extraction. The first selector yielding non-empty text wins.
type FieldSelectors struct {
	Container   string
	Name        []string
	Destination []string
	Price       []string
	Date        []string
	Duration    []string
	City        []string
	MealPlan    []string
	Link        []string
}

// Defaults used when a field cannot be found on the page
type Defaults struct {
	HotelName     string
	DepartureCity string
	MealPlan      string
}
