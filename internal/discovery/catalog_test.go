package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vettr/ingest-cli/internal/model"
)

func TestLoadCatalogMissing(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "tickers.json"))
	require.NoError(t, err)
	assert.Empty(t, c.Tickers)
	assert.NotNil(t, c.Exchanges)
}

func TestLoadCatalogMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.json")
	c := &model.Catalog{Tickers: []model.Ticker{
		{Symbol: "ABC", ProviderSymbol: "ABC.TO", Exchange: "TSX"},
		{Symbol: "XYZ", ProviderSymbol: "XYZ.V", Exchange: "TSXV"},
	}}

	require.NoError(t, SaveCatalog(path, c))
	assert.False(t, c.GeneratedAt.IsZero())
	assert.Equal(t, map[string]int{"TSX": 1, "TSXV": 1}, c.Exchanges)

	got, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, c.Tickers, got.Tickers)
	assert.Equal(t, c.Exchanges, got.Exchanges)
}

func TestMergeTickersAdditive(t *testing.T) {
	c := &model.Catalog{Tickers: []model.Ticker{
		{Symbol: "ABC", ProviderSymbol: "ABC.TO", Exchange: "TSX"},
	}}

	added := MergeTickers(c, []model.Ticker{
		{Symbol: "ABC", ProviderSymbol: "ABC.TO", Exchange: "TSX"},
		{Symbol: "XYZ", ProviderSymbol: "XYZ.V", Exchange: "TSXV"},
		{Symbol: "XYZ", ProviderSymbol: "XYZ.V", Exchange: "TSXV"},
	})

	assert.Equal(t, 1, added)
	require.Len(t, c.Tickers, 2)
	assert.Equal(t, "XYZ.V", c.Tickers[1].ProviderSymbol)
}
