package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDurationDays is used when no duration can be read
const DefaultDurationDays = 7

var (
	// PriceSentinel sorts unparseable prices last
	PriceSentinel = decimal.RequireFromString("9999.99")

	// DefaultDepartureDate is used when no date can be read
	DefaultDepartureDate = time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)
)

var (
	// a space groups thousands only when exactly three digits follow it
	priceTokenRe = regexp.MustCompile(`\d{1,3}(?:[\s\x{00a0}\x{202f}]\d{3})+(?:[.,]\d+)*|\d[\d.,]*`)

	singleDateRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
	rangeDateRe  = regexp.MustCompile(`\d{1,2}\.\d{1,2}\s*[-–—]\s*(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	shortDateRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)

	daysRe       = regexp.MustCompile(`(\d+)\s*dni`)
	daysNightsRe = regexp.MustCompile(`(\d+)\s*dni\s*/\s*\d+\s*noc`)
)

// ParsePrice reads the first number in text, e.g. "od 2 499,99 zł".
// Spaces are thousands separators. When both ',' and '.' appear the last
// one is the decimal point; a lone separator is always the decimal point
// and a repeated one groups thousands.
func ParsePrice(text string) decimal.Decimal {
	p, ok := MatchPrice(text)
	if !ok {
		return PriceSentinel
	}
	return p
}

// MatchPrice is ParsePrice reporting whether a number was found
func MatchPrice(text string) (decimal.Decimal, bool) {
	token := priceTokenRe.FindString(text)
	if token == "" {
		return decimal.Decimal{}, false
	}

	token = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, token)
	token = strings.TrimRight(token, ".,")

	normalized := normalizeSeparators(token)
	if normalized == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func normalizeSeparators(token string) string {
	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			token = strings.ReplaceAll(token, ".", "")
			return strings.Replace(token, ",", ".", 1)
		}
		return strings.ReplaceAll(token, ",", "")
	case lastComma >= 0:
		if strings.Count(token, ",") > 1 {
			return strings.ReplaceAll(token, ",", "")
		}
		return strings.Replace(token, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(token, ".") > 1 {
			return strings.ReplaceAll(token, ".", "")
		}
		return token
	}
	return token
}

// ParseDate reads a departure date. The first "DD.MM.YYYY" in text wins,
// even inside a range. Otherwise a range with one-digit parts such as
// "5.7 - 12.7.2026" gives its end date minus assumedDays, and a lone
// "D.M.YYYY" is taken as is. Anything else yields DefaultDepartureDate.
func ParseDate(text string, assumedDays int) time.Time {
	d, ok := MatchDate(text, assumedDays)
	if !ok {
		return DefaultDepartureDate
	}
	return d
}

// MatchDate is ParseDate reporting whether a date was found
func MatchDate(text string, assumedDays int) (time.Time, bool) {
	if assumedDays < 1 {
		assumedDays = DefaultDurationDays
	}

	if m := singleDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}

	if m := rangeDateRe.FindStringSubmatch(text); m != nil {
		if ret, ok := calendarDate(m[1], m[2], m[3]); ok {
			return ret.AddDate(0, 0, -assumedDays), true
		}
	}

	if m := shortDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := calendarDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

func calendarDate(day, month, year string) (time.Time, bool) {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31.02 to 03.03
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

// ParseDuration reads "N dni" or "N dni / M nocy"; default 7
func ParseDuration(text string) int {
	for _, re := range []*regexp.Regexp{daysRe, daysNightsRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 {
			return n
		}
	}
	return DefaultDurationDays
}

// ResolveURL makes href absolute against baseURL
func ResolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	base := strings.TrimRight(baseURL, "/")

	switch {
	case href == "":
		return base
	case strings.HasPrefix(strings.ToLower(href), "http"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	}

	return base + "/" + strings.TrimLeft(href, "/")
}
