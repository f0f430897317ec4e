package ingest

import (
	"math"
	"time"

	"github.com/vettr/ingest-cli/internal/model"
	"github.com/vettr/ingest-cli/internal/sector"
	"github.com/vettr/ingest-cli/pkg/yahoo"
)

// Derived fields are presence-gated: if any operand is absent the result is
// nil, never zero-filled. The functions are deterministic so that
// re-processing the same provider response after a crash reproduces an
// identical record.

// priceChange returns price − previousClose rounded to 4 decimal places.
func priceChange(price, previousClose *float64) *float64 {
	if price == nil || previousClose == nil {
		return nil
	}
	v := roundTo(*price-*previousClose, 4)
	return &v
}

// monthlyBurn returns (opex − revenue) / 12 rounded to 2 decimal places.
// Positive burn means expenses exceed revenue.
func monthlyBurn(opex, revenue *float64) *float64 {
	if opex == nil || revenue == nil {
		return nil
	}
	v := roundTo((*opex-*revenue)/12, 2)
	return &v
}

// insiderShares returns sharesOutstanding × heldPctInsiders rounded to a
// whole share count.
func insiderShares(shares, heldPct *float64) *int64 {
	if shares == nil || heldPct == nil {
		return nil
	}
	v := int64(math.Round(*shares * *heldPct))
	return &v
}

// daysSinceLastPR returns the whole days elapsed since the most recent news
// timestamp. Only positive timestamps count; none present yields nil.
func daysSinceLastPR(now time.Time, news []yahoo.NewsItem) *int {
	var latest int64
	for _, n := range news {
		if n.PublishedAt > latest {
			latest = n.PublishedAt
		}
	}
	if latest <= 0 {
		return nil
	}
	days := int(now.UTC().Sub(time.Unix(latest, 0).UTC()).Hours() / 24)
	return &days
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// buildRecord transforms a raw provider snapshot into the normalized output
// record for one ticker.
func buildRecord(now time.Time, t model.Ticker, snap *yahoo.Snapshot) *model.StockRecord {
	name := snap.Name
	if name == "" {
		name = t.Symbol
	}

	rec := &model.StockRecord{
		FetchedAt:      now.UTC(),
		ProviderSymbol: t.ProviderSymbol,
		Symbol:         t.Symbol,
		Exchange:       t.Exchange,

		Name:   name,
		Sector: sector.Map(snap.Sector, snap.Industry),

		MarketCap:     snap.MarketCap,
		Price:         snap.Price,
		PreviousClose: snap.PreviousClose,
		AvgVolume30d:  snap.AvgVolume30d,

		Cash:              snap.Cash,
		TotalDebt:         snap.TotalDebt,
		Revenue:           snap.Revenue,
		TotalOpex:         snap.TotalOpex,
		SharesOutstanding: snap.SharesOutstanding,
		HeldPctInsiders:   snap.HeldPctInsiders,

		PriceChange:     priceChange(snap.Price, snap.PreviousClose),
		MonthlyBurn:     monthlyBurn(snap.TotalOpex, snap.Revenue),
		InsiderShares:   insiderShares(snap.SharesOutstanding, snap.HeldPctInsiders),
		DaysSinceLastPR: daysSinceLastPR(now, snap.News),
	}

	for _, o := range snap.Officers {
		name, title := o.Name, o.Title
		if name == "" {
			name = "Unknown"
		}
		if title == "" {
			title = "Officer"
		}
		rec.Officers = append(rec.Officers, model.Officer{Name: name, Title: title})
	}
	for _, n := range snap.News {
		rec.News = append(rec.News, model.NewsItem{
			Title:       n.Title,
			Publisher:   n.Publisher,
			Link:        n.Link,
			PublishedAt: n.PublishedAt,
		})
	}

	return rec
}
