package profile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"travelscraper/offerworker/helpers"
	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

// Amenity is a facility a search can ask for
type Amenity string

const (
	AmenityWifi    Amenity = "wifi"
	AmenitySunbeds Amenity = "sunbeds"
)

const (
	MinDurationLimit = 1
	MaxDurationLimit = 30
	dateLayout       = "2006-01-02"
)

// SearchProfile is what a collection run searches for. It is not modified
// during a run.
type SearchProfile struct {
	Countries     []string
	DepartureCity string
	MinDate       time.Time
	MinDuration   int
	MaxDuration   int
	MealPlan      string
	Amenities     []Amenity
}

// Default returns the profile used when none is configured
func Default() SearchProfile {
	return SearchProfile{
		Countries:     []string{"Bułgaria", "Egipt", "Turcja"},
		DepartureCity: "Katowice",
		MinDate:       time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
		MinDuration:   5,
		MaxDuration:   8,
		MealPlan:      "all inclusive",
		Amenities:     []Amenity{AmenityWifi, AmenitySunbeds},
	}
}

// Validate checks the profile invariants
func (p SearchProfile) Validate() error {
	if len(p.Countries) == 0 {
		return scrapeerrors.NewValidation("", "profile needs at least one country")
	}
	for _, c := range p.Countries {
		if strings.TrimSpace(c) == "" {
			return scrapeerrors.NewValidation("", "profile has an empty country name")
		}
	}
	if strings.TrimSpace(p.DepartureCity) == "" {
		return scrapeerrors.NewValidation("", "profile needs a departure city")
	}
	if p.MinDate.IsZero() {
		return scrapeerrors.NewValidation("", "profile needs a minimum departure date")
	}
	if p.MinDuration < MinDurationLimit || p.MaxDuration > MaxDurationLimit || p.MinDuration > p.MaxDuration {
		return scrapeerrors.NewValidation("", fmt.Sprintf("duration range %d..%d must satisfy %d <= min <= max <= %d",
			p.MinDuration, p.MaxDuration, MinDurationLimit, MaxDurationLimit))
	}
	for _, a := range p.Amenities {
		if a != AmenityWifi && a != AmenitySunbeds {
			return scrapeerrors.NewValidation("", fmt.Sprintf("unknown amenity %q", a))
		}
	}
	return nil
}

// Wants reports whether the profile requires an amenity
func (p SearchProfile) Wants(a Amenity) bool {
	for _, have := range p.Amenities {
		if have == a {
			return true
		}
	}
	return false
}

// String renders the profile for logs
func (p SearchProfile) String() string {
	return fmt.Sprintf("%s from %s after %s, %d-%d days, %s",
		strings.Join(p.Countries, ","), p.DepartureCity, p.MinDate.Format(dateLayout),
		p.MinDuration, p.MaxDuration, p.MealPlan)
}

// ParseAmenity maps a user supplied amenity name. The Polish "leżaki"
// is accepted for sunbeds.
func ParseAmenity(s string) (Amenity, error) {
	switch strings.ToLower(helpers.Transliterate(strings.TrimSpace(s))) {
	case "wifi", "wi-fi":
		return AmenityWifi, nil
	case "sunbeds", "sunbed", "lezaki":
		return AmenitySunbeds, nil
	}
	return "", scrapeerrors.NewValidation("", fmt.Sprintf("unknown amenity %q", s))
}

// ParseDate reads a YYYY-MM-DD profile date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, scrapeerrors.New(scrapeerrors.ErrorTypeValidation, "", fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s), err)
	}
	return t, nil
}

type fileProfile struct {
	Countries     []string `yaml:"countries"`
	DepartureCity string   `yaml:"departure_city"`
	MinDate       string   `yaml:"min_date"`
	MinDuration   int      `yaml:"min_duration"`
	MaxDuration   int      `yaml:"max_duration"`
	MealPlan      string   `yaml:"meal_plan"`
	Amenities     []string `yaml:"amenities"`
}

// Parse reads a YAML profile. Keys left out keep their default values.
func Parse(data []byte) (SearchProfile, error) {
	var f fileProfile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return SearchProfile{}, scrapeerrors.NewConfiguration("invalid profile YAML", err)
	}

	p := Default()
	if len(f.Countries) > 0 {
		p.Countries = f.Countries
	}
	if f.DepartureCity != "" {
		p.DepartureCity = f.DepartureCity
	}
	if f.MinDate != "" {
		d, err := ParseDate(f.MinDate)
		if err != nil {
			return SearchProfile{}, err
		}
		p.MinDate = d
	}
	if f.MinDuration != 0 {
		p.MinDuration = f.MinDuration
	}
	if f.MaxDuration != 0 {
		p.MaxDuration = f.MaxDuration
	}
	if f.MealPlan != "" {
		p.MealPlan = f.MealPlan
	}
	if f.Amenities != nil {
		p.Amenities = p.Amenities[:0:0]
		for _, raw := range f.Amenities {
			a, err := ParseAmenity(raw)
			if err != nil {
				return SearchProfile{}, err
			}
			p.Amenities = append(p.Amenities, a)
		}
	}

	if err := p.Validate(); err != nil {
		return SearchProfile{}, err
	}
	return p, nil
}

// LoadFile reads a profile from a YAML file, or returns the default
// profile when path is empty
func LoadFile(path string) (SearchProfile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchProfile{}, scrapeerrors.NewConfiguration("read profile "+path, err)
	}
	return Parse(data)
}
