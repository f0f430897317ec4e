package model

import "time"

// StockRecord is the normalized per-ticker output written to the record
// store on a completed fetch. Nullable fields are pointers: absence of a
// source value stays absent in the output, it is never zero-filled.
type StockRecord struct {
	FetchedAt      time.Time `json:"fetched_at"`
	ProviderSymbol string    `json:"provider_symbol"`
	Symbol         string    `json:"symbol"`
	Exchange       string    `json:"exchange"`

	// Identity
	Name   string `json:"name"`
	Sector string `json:"sector"`

	// Market / valuation
	MarketCap     *float64 `json:"market_cap"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previous_close"`
	PriceChange   *float64 `json:"price_change"`
	AvgVolume30d  *float64 `json:"avg_vol_30d"`

	// Financial statements
	Cash              *float64 `json:"cash"`
	TotalDebt         *float64 `json:"total_debt"`
	Revenue           *float64 `json:"revenue"`
	TotalOpex         *float64 `json:"total_opex"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
	HeldPctInsiders   *float64 `json:"held_percent_insiders"`

	// Derived (presence-gated: nil when any operand is missing)
	MonthlyBurn     *float64 `json:"monthly_burn"`
	InsiderShares   *int64   `json:"insider_shares"`
	DaysSinceLastPR *int     `json:"days_since_last_pr"`

	// Passthrough for reporting
	Officers []Officer  `json:"officers,omitempty"`
	News     []NewsItem `json:"news_items,omitempty"`
}

// Officer is a company officer carried through from the provider.
type Officer struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// NewsItem is a recent public disclosure carried through from the provider.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link"`
	PublishedAt int64  `json:"published"`
}
