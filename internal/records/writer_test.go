package records

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vettr/ingest-cli/internal/model"
)

func TestWriteAndReload(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "stock_data"))

	mcap := 50_000_000.0
	rec := &model.StockRecord{
		FetchedAt:      time.Now().UTC().Truncate(time.Second),
		ProviderSymbol: "ABC.TO",
		Symbol:         "ABC",
		Exchange:       "TSX",
		Name:           "ABC Corp",
		Sector:         "Gold",
		MarketCap:      &mcap,
	}

	require.NoError(t, w.Write("ABC.TO", rec))
	assert.True(t, w.Exists("ABC.TO"))
	assert.False(t, w.Exists("XYZ.TO"))

	data, err := os.ReadFile(w.Path("ABC.TO"))
	require.NoError(t, err)
	var got model.StockRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *rec, got)

	// Absent nullables serialize as explicit nulls, not zeros.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "price")
	assert.Nil(t, raw["price"])
}

func TestWriteLastWins(t *testing.T) {
	w := NewWriter(t.TempDir())

	first := &model.StockRecord{ProviderSymbol: "ABC.TO", Name: "Old Name"}
	second := &model.StockRecord{ProviderSymbol: "ABC.TO", Name: "New Name"}
	require.NoError(t, w.Write("ABC.TO", first))
	require.NoError(t, w.Write("ABC.TO", second))

	data, err := os.ReadFile(w.Path("ABC.TO"))
	require.NoError(t, err)
	var got model.StockRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "New Name", got.Name)
}
