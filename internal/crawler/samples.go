package crawler

import "github.com/shopspring/decimal"

// The fallback datasets are the same five Bulgarian hotels, linked to each
// agency's own pages.

var travelplanetSamples = []SampleOffer{
	{"Hotel Sunrise Blue Magic Resort", "Obzor", decimal.RequireFromString("2499.99"), "wakacje/bulgaria/obzor/sunrise-blue-magic-resort.html"},
	{"Hotel Kotva", "Słoneczny Brzeg", decimal.RequireFromString("1899.99"), "wakacje/bulgaria/sloneczny-brzeg/kotva.html"},
	{"Hotel Tiara Beach", "Słoneczny Brzeg", decimal.RequireFromString("2199.99"), "wakacje/bulgaria/sloneczny-brzeg/tiara-beach.html"},
	{"Hotel Imperial Resort", "Słoneczny Brzeg", decimal.RequireFromString("2599.99"), "wakacje/bulgaria/sloneczny-brzeg/imperial-resort.html"},
	{"Hotel Bellevue", "Złote Piaski", decimal.RequireFromString("1799.99"), "wakacje/bulgaria/zlote-piaski/bellevue.html"},
}

var wakacjeSamples = []SampleOffer{
	{"Hotel Sunrise Blue Magic Resort", "Obzor", decimal.RequireFromString("2499.99"), "hotele/bulgaria/obzor/sunrise-blue-magic-resort.html"},
	{"Hotel Kotva", "Słoneczny Brzeg", decimal.RequireFromString("1899.99"), "hotele/bulgaria/sloneczny-brzeg/kotva.html"},
	{"Hotel Tiara Beach", "Słoneczny Brzeg", decimal.RequireFromString("2199.99"), "hotele/bulgaria/sloneczny-brzeg/tiara-beach.html"},
	{"Hotel Imperial Resort", "Słoneczny Brzeg", decimal.RequireFromString("2599.99"), "hotele/bulgaria/sloneczny-brzeg/imperial-resort.html"},
	{"Hotel Bellevue", "Złote Piaski", decimal.RequireFromString("1799.99"), "hotele/bulgaria/zlote-piaski/bellevue.html"},
}

var flySamples = []SampleOffer{
	{"Hotel Sunrise Blue Magic Resort", "Obzor", decimal.RequireFromString("2549.00"), "wczasy/bulgaria/obzor/sunrise-blue-magic-resort/"},
	{"Hotel Kotva", "Słoneczny Brzeg", decimal.RequireFromString("1949.00"), "wczasy/bulgaria/sloneczny-brzeg/kotva/"},
	{"Hotel Tiara Beach", "Słoneczny Brzeg", decimal.RequireFromString("2249.00"), "wczasy/bulgaria/sloneczny-brzeg/tiara-beach/"},
	{"Hotel Imperial Resort", "Słoneczny Brzeg", decimal.RequireFromString("2649.00"), "wczasy/bulgaria/sloneczny-brzeg/imperial-resort/"},
	{"Hotel Bellevue", "Złote Piaski", decimal.RequireFromString("1849.00"), "wczasy/bulgaria/zlote-piaski/bellevue/"},
}
