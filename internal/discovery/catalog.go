// Package discovery builds the ticker catalog: the candidate universe of
// Canadian-listed securities merged additively into the ingestion status
// store. Discovery keeps no per-ticker progress state of its own.
package discovery

import (
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vettr/ingest-cli/internal/fsutil"
	"github.com/vettr/ingest-cli/internal/model"
)

// LoadCatalog reads the catalog file. A missing file returns an empty
// catalog so the first discovery run starts from nothing.
func LoadCatalog(path string) (*model.Catalog, error) {
	var c model.Catalog
	err := fsutil.ReadJSON(path, &c)
	if os.IsNotExist(err) {
		return &model.Catalog{Exchanges: map[string]int{}}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "discovery: load catalog %s", path)
	}
	if c.Exchanges == nil {
		c.Exchanges = map[string]int{}
	}
	return &c, nil
}

// SaveCatalog writes the catalog atomically with refreshed counts.
func SaveCatalog(path string, c *model.Catalog) error {
	c.GeneratedAt = time.Now().UTC()
	c.Recount()
	if err := fsutil.WriteJSONAtomic(path, c); err != nil {
		return eris.Wrap(err, "discovery: save catalog")
	}
	return nil
}

// MergeTickers appends tickers whose provider symbol is not yet in the
// catalog and returns how many were added. Existing entries are never
// rewritten or removed.
func MergeTickers(c *model.Catalog, tickers []model.Ticker) int {
	known := make(map[string]struct{}, len(c.Tickers))
	for _, t := range c.Tickers {
		known[t.ProviderSymbol] = struct{}{}
	}

	added := 0
	for _, t := range tickers {
		if _, ok := known[t.ProviderSymbol]; ok {
			continue
		}
		known[t.ProviderSymbol] = struct{}{}
		c.Tickers = append(c.Tickers, t)
		added++
	}
	return added
}
