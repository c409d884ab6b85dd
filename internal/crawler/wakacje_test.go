package crawler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelscraper/offerworker/internal/extract"
)

const wakacjePage = `<html><body>
<header><a href="/zaloguj/">Zaloguj się</a></header>
<div class="tiles">
  <div class="offer-tile">
    <a href="/hotele/bulgaria/obzor/melia-grand-hermitage.html">Melia Grand Hermitage</a>
    <div class="price">1 999 zł</div>
    <div class="meal">Śniadania</div>
  </div>
  <div class="offer-tile">
    <a href="/hotele/bulgaria/sloneczny-brzeg/royal-palace-helena-sands.html"><img src="x.jpg"></a>
  </div>
  <a href="/hotele/bulgaria/">Bułgaria</a>
  <a href="/hotele/bulgaria/obzor/newsletter.html">Newsletter</a>
</div>
</body></html>`

func TestWakacjeExtractsHotelDetailLinks(t *testing.T) {
	candidates := NewWakacjeCrawler(Options{}).ExtractCandidates(mustDoc(t, wakacjePage), "Bułgaria")

	require.Len(t, candidates, 2)

	melia := candidates[0]
	assert.Equal(t, "Melia Grand Hermitage", melia.HotelName)
	assert.Equal(t, "Obzor", melia.DestinationName)
	assert.Equal(t, "Bułgaria", melia.Country)
	assert.True(t, decimal.RequireFromString("1999").Equal(melia.Price))
	assert.Equal(t, "Śniadania", melia.MealPlan)
	assert.Equal(t, "https://www.wakacje.pl/hotele/bulgaria/obzor/melia-grand-hermitage.html", melia.OfferURL)
	assert.Equal(t, ProvenanceLive, melia.Provenance)

	royal := candidates[1]
	assert.Equal(t, "Royal Palace Helena Sands", royal.HotelName)
	assert.Equal(t, "Sloneczny Brzeg", royal.DestinationName)
	assert.True(t, extract.PriceSentinel.Equal(royal.Price))
	assert.Equal(t, "All inclusive", royal.MealPlan)
	assert.Equal(t, "Warszawa", royal.DepartureCity)
}

func TestIsHotelLink(t *testing.T) {
	assert.True(t, isHotelLink("/hotele/bulgaria/obzor/kotva.html"))
	assert.True(t, isHotelLink("https://www.wakacje.pl/hotele/egipt/kotva.html"))
	assert.False(t, isHotelLink("/hotele/bulgaria/"))
	assert.False(t, isHotelLink("/hotele/kotva.html"))
	assert.False(t, isHotelLink("/wczasy/bulgaria/obzor/kotva/"))
}

func TestWakacjeFallbackLinksYieldSamples(t *testing.T) {
	page := `<a href="/wczasy/egipt/">Wczasy w Egipcie</a><a href="/oferta/last-minute/">Last minute</a>`
	candidates := NewWakacjeCrawler(Options{}).ExtractCandidates(mustDoc(t, page), "Egipt")

	require.Len(t, candidates, 5)
	for _, cand := range candidates {
		assert.Equal(t, ProvenanceSample, cand.Provenance)
		assert.Equal(t, "Egipt", cand.Country)
		assert.True(t, strings.HasPrefix(cand.OfferURL, "https://www.wakacje.pl/hotele/bulgaria/"))
	}
}

func TestWakacjeCapsValidLinks(t *testing.T) {
	var b strings.Builder
	// invalid links first must not eat into the cap
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, `<a href="/hotele/egipt/">Egipt %d</a>`, i)
	}
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, `<div class="card"><a href="/hotele/egipt/hurghada/admiral-plaza-%d.html">Admiral Plaza %d</a></div>`, i, i)
	}

	candidates := NewWakacjeCrawler(Options{}).ExtractCandidates(mustDoc(t, b.String()), "Egipt")
	require.Len(t, candidates, 10)
	assert.Equal(t, "Admiral Plaza 0", candidates[0].HotelName)
	assert.Equal(t, "Hurghada", candidates[0].DestinationName)
}
