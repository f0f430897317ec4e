package model

import "time"

// Ticker identifies one listed security discovered from an exchange.
// Immutable once discovered; the ingestion engine never rewrites it.
type Ticker struct {
	// Symbol is the display symbol without an exchange suffix ("ABC").
	Symbol string `json:"symbol"`
	// ProviderSymbol is the provider-facing symbol ("ABC.TO"). It keys the
	// status store and the per-ticker output records.
	ProviderSymbol string `json:"provider_symbol"`
	// Exchange is the source venue: TSX, TSXV, or CSE.
	Exchange string `json:"exchange"`
}

// Catalog is the output of a discovery run: the candidate universe merged
// additively into the status store at the start of an ingestion run.
type Catalog struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Tickers     []Ticker       `json:"tickers"`
	Exchanges   map[string]int `json:"exchanges"`
}

// Recount rebuilds the per-exchange counts from the ticker list.
func (c *Catalog) Recount() {
	counts := make(map[string]int)
	for _, t := range c.Tickers {
		counts[t.Exchange]++
	}
	c.Exchanges = counts
}

// Has reports whether the catalog already contains the provider symbol.
func (c *Catalog) Has(providerSymbol string) bool {
	for _, t := range c.Tickers {
		if t.ProviderSymbol == providerSymbol {
			return true
		}
	}
	return false
}
