package ports

// PriceResponse is returned by the reference price endpoint for a trading
// pair, ie. GET /osmo/usd -> { basePrice: "2.5", quotePrice: "0.4" }
type PriceResponse struct {
	BasePrice  string `json:"basePrice"`
	QuotePrice string `json:"quotePrice"`
}
