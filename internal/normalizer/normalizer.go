package normalizer

import (
	"time"

	"travelscraper/offerworker/helpers"
	"travelscraper/offerworker/internal/crawler"
	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/internal/profile"
	"travelscraper/offerworker/logger"
)

// Rejection reasons, also used as metric labels
const (
	ReasonName     = "name"
	ReasonCity     = "city"
	ReasonDate     = "date"
	ReasonDuration = "duration"
	ReasonMeal     = "meal"
	ReasonAmenity  = "amenity"
)

// Offer is a candidate that satisfies the search profile
type Offer struct {
	crawler.Candidate

	// Corrected lists the fields rewritten to match the profile
	Corrected []string `json:"corrected,omitempty"`
}

// Normalizer reconciles extracted candidates with a search profile.
//
// By default every mismatch except an implausible name is corrected by
// overwriting the field with the profile value, and both amenity flags are
// forced on. In strict mode any mismatch rejects the candidate instead.
type Normalizer struct {
	strict  bool
	logger  *logger.Logger
	metrics *obs.Metrics
}

// New creates a normalizer
func New(strict bool, log *logger.Logger, metrics *obs.Metrics) *Normalizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{
		strict:  strict,
		logger:  log.ForComponent("normalizer"),
		metrics: metrics,
	}
}

// Strict reports whether mismatches reject candidates
func (n *Normalizer) Strict() bool {
	return n.strict
}

// Normalize applies the profile to each candidate independently, keeping
// their order
func (n *Normalizer) Normalize(agency string, candidates []crawler.Candidate, p profile.SearchProfile, validator *crawler.NameValidator) []Offer {
	offers := make([]Offer, 0, len(candidates))
	for _, cand := range candidates {
		offer, reason := n.normalizeOne(cand, p, validator)
		if reason != "" {
			n.metrics.IncRejected(agency, reason)
			n.logger.Debug().
				Str("agency", agency).
				Str("hotel", cand.HotelName).
				Str("reason", reason).
				Msg("Rejected candidate")
			continue
		}
		offers = append(offers, offer)
	}

	n.metrics.AddNormalized(agency, len(offers))
	n.logger.Debug().
		Str("agency", agency).
		Int("candidates", len(candidates)).
		Int("offers", len(offers)).
		Bool("strict", n.strict).
		Msg("Normalized candidates")

	return offers
}

func (n *Normalizer) normalizeOne(cand crawler.Candidate, p profile.SearchProfile, validator *crawler.NameValidator) (Offer, string) {
	// sample offers carry curated names and are never dropped here
	if validator.Enforced() && cand.Provenance != crawler.ProvenanceSample && !validator.IsValid(cand.HotelName) {
		return Offer{}, ReasonName
	}

	offer := Offer{Candidate: cand}
	departure, days := cand.DepartureDate, cand.Duration

	if !helpers.ContainsFold(offer.DepartureCity, p.DepartureCity) {
		if n.strict {
			return Offer{}, ReasonCity
		}
		offer.DepartureCity = p.DepartureCity
		offer.Corrected = append(offer.Corrected, "departure_city")
	}

	if departure.Before(p.MinDate) {
		if n.strict {
			return Offer{}, ReasonDate
		}
		departure = p.MinDate
		offer.Corrected = append(offer.Corrected, "departure_date")
	}

	if days < p.MinDuration || days > p.MaxDuration {
		if n.strict {
			return Offer{}, ReasonDuration
		}
		days = clamp(days, p.MinDuration, p.MaxDuration)
		offer.Corrected = append(offer.Corrected, "duration")
	}

	offer.SetSchedule(truncateDay(departure), days)

	if !helpers.ContainsFold(offer.MealPlan, p.MealPlan) {
		if n.strict {
			return Offer{}, ReasonMeal
		}
		offer.MealPlan = p.MealPlan
		offer.Corrected = append(offer.Corrected, "meal_plan")
	}

	if n.strict {
		if (p.Wants(profile.AmenityWifi) && !offer.HasWifi) || (p.Wants(profile.AmenitySunbeds) && !offer.HasSunbeds) {
			return Offer{}, ReasonAmenity
		}
	} else {
		offer.HasWifi = true
		offer.HasSunbeds = true
	}

	return offer, ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncateDay drops any time of day, keeping the calendar date in UTC
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
