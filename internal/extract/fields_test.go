package extract

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"2499,99 zł", "2499.99"},
		{"2 499,99 zł", "2499.99"},
		{"od 2 499,99 zł / os.", "2499.99"},
		{"1899.99 zł", "1899.99"},
		{"1.299,00 PLN", "1299"},
		{"2,499.50", "2499.5"},
		{"1 234 567 zł", "1234567"},
		{"3.499.000", "3499000"},
		{"Cena: 999,", "999"},
		{"brak ceny", "9999.99"},
		{"", "9999.99"},
		{"zł", "9999.99"},
		{"1999\n7 dni", "1999"},
		{"1999 7 dni", "1999"},
		{"od 1 999 zł 7 dni", "1999"},
		{"2 899,00 zł\u00a0/ 8 dni", "2899"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := ParsePrice(tc.text)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestParsePriceRoundTripsDecimalText(t *testing.T) {
	for whole := 1; whole < 30000; whole += 997 {
		for _, frac := range []int{0, 5, 49, 99} {
			want := decimal.New(int64(whole*100+frac), -2)
			for _, sep := range []string{",", "."} {
				text := fmt.Sprintf("%d%s%02d zł", whole, sep, frac)
				assert.True(t, want.Equal(ParsePrice(text)), text)
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, day(2025, time.December, 15), ParseDate("Wylot 15.12.2025", 7))
	assert.Equal(t, day(2026, time.July, 5), ParseDate("5.7.2026", 7))

	// a full DD.MM.YYYY date is taken as is, also at the end of a range
	assert.Equal(t, day(2025, time.December, 22), ParseDate("15.12 - 22.12.2025", 7))
	assert.Equal(t, day(2025, time.December, 22), ParseDate("15.12-22.12.2025", 10))

	// one-digit ranges count back from their end date
	assert.Equal(t, day(2026, time.August, 2).AddDate(0, 0, -7), ParseDate("5.7 - 2.8.2026", 7))
	assert.Equal(t, day(2026, time.July, 2), ParseDate("5.7-12.7.2026", 10))
	assert.Equal(t, day(2026, time.July, 5), ParseDate("5.7 – 12.7.2026", 0))

	assert.Equal(t, DefaultDepartureDate, ParseDate("wkrótce", 7))
	assert.Equal(t, DefaultDepartureDate, ParseDate("31.02.2026", 7))
	assert.Equal(t, DefaultDepartureDate, ParseDate("10.13.2026", 7))
	assert.Equal(t, DefaultDepartureDate, ParseDate("", 7))
}

func TestParseDateEveryCalendarDay(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		text := d.Format("02.01.2006")
		assert.Equal(t, d, ParseDate(text, 7), text)
	}
}

func TestParseDuration(t *testing.T) {
	for n := 1; n <= 30; n++ {
		assert.Equal(t, n, ParseDuration(fmt.Sprintf("%d dni", n)))
	}

	assert.Equal(t, 8, ParseDuration("8 dni / 7 nocy"))
	assert.Equal(t, 10, ParseDuration("Pobyt: 10dni"))
	assert.Equal(t, DefaultDurationDays, ParseDuration("0 dni"))
	assert.Equal(t, DefaultDurationDays, ParseDuration("tydzień"))
	assert.Equal(t, DefaultDurationDays, ParseDuration(""))
}

func TestResolveURL(t *testing.T) {
	base := "https://www.wakacje.pl/"

	assert.Equal(t, "https://www.wakacje.pl/hotele/bulgaria/obzor/x.html", ResolveURL(base, "/hotele/bulgaria/obzor/x.html"))
	assert.Equal(t, "https://www.wakacje.pl/oferta/1", ResolveURL(base, "oferta/1"))
	assert.Equal(t, "https://www.wakacje.pl/oferta/1", ResolveURL("https://www.wakacje.pl", "/oferta/1"))
	assert.Equal(t, "https://cdn.example.com/a", ResolveURL(base, "https://cdn.example.com/a"))
	assert.Equal(t, "http://example.com/a", ResolveURL(base, " http://example.com/a "))
	assert.Equal(t, "https://static.fly.pl/a", ResolveURL(base, "//static.fly.pl/a"))
	assert.Equal(t, "https://www.wakacje.pl", ResolveURL(base, ""))
}
