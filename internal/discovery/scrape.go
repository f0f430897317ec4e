package discovery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vettr/ingest-cli/internal/model"
)

// Source is one exchange listing page to scrape.
type Source struct {
	// Exchange is the venue tag recorded on discovered tickers.
	Exchange string `mapstructure:"exchange"`
	// URL is the listing page.
	URL string `mapstructure:"url"`
	// Suffix is the provider symbol suffix for the venue (".TO", ".V", ".CN").
	Suffix string `mapstructure:"suffix"`
}

// Scraper discovers tickers from exchange listing pages.
type Scraper struct {
	client  *http.Client
	sources []Source
}

// NewScraper wires an HTTP client over the configured sources.
func NewScraper(client *http.Client, sources []Source) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{client: client, sources: sources}
}

// Discover scrapes every source and returns the combined ticker list. A
// single failing source is logged and skipped since the exchanges publish
// independently and a partial universe is still worth ingesting.
func (s *Scraper) Discover(ctx context.Context) ([]model.Ticker, error) {
	var all []model.Ticker
	failures := 0

	for _, src := range s.sources {
		tickers, err := s.scrapeSource(ctx, src)
		if err != nil {
			failures++
			zap.L().Warn("exchange listing scrape failed",
				zap.String("exchange", src.Exchange),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("discovered tickers",
			zap.String("exchange", src.Exchange),
			zap.Int("count", len(tickers)),
		)
		all = append(all, tickers...)
	}

	if failures == len(s.sources) {
		return nil, eris.New("discovery: all listing sources failed")
	}
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source) ([]model.Ticker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "discovery: create request for %s", src.Exchange)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "discovery: fetch %s listing", src.Exchange)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("discovery: %s listing returned http %d", src.Exchange, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "discovery: parse %s listing", src.Exchange)
	}

	return parseListing(doc, src), nil
}

// parseListing extracts symbols from the first cell of each listing table
// row, deduplicating within the page.
func parseListing(doc *goquery.Document, src Source) []model.Ticker {
	var tickers []model.Ticker
	seen := map[string]struct{}{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		sym := strings.ToUpper(strings.TrimSpace(cell.Text()))
		if !validSymbol(sym) {
			return
		}
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		tickers = append(tickers, model.Ticker{
			Symbol:         sym,
			ProviderSymbol: ProviderSymbol(sym, src.Suffix),
			Exchange:       src.Exchange,
		})
	})

	return tickers
}

// validSymbol filters out header cells, empties, capital pool companies
// (.P) and inactive listings (.H).
func validSymbol(sym string) bool {
	if sym == "" || len(sym) > 10 {
		return false
	}
	if strings.HasSuffix(sym, ".P") || strings.HasSuffix(sym, ".H") {
		return false
	}
	for _, r := range sym {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	// Reject all-numeric cells (row numbers, not symbols).
	return strings.IndexFunc(sym, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
}

// ProviderSymbol maps a display symbol to the provider-facing form: class
// separators become dashes and the venue suffix is appended ("BAM.A" on TSX
// → "BAM-A.TO").
func ProviderSymbol(sym, suffix string) string {
	return strings.ReplaceAll(sym, ".", "-") + suffix
}
