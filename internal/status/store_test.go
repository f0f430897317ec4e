package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vettr/ingest-cli/internal/model"
)

func testTickers() []model.Ticker {
	return []model.Ticker{
		{Symbol: "AAA", ProviderSymbol: "AAA.TO", Exchange: "TSX"},
		{Symbol: "BBB", ProviderSymbol: "BBB.V", Exchange: "TSXV"},
		{Symbol: "CCC", ProviderSymbol: "CCC.CN", Exchange: "CSE"},
	}
}

func TestOpenMissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "status.json"))
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, store.Stats())
	assert.Empty(t, store.Pending())
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrCorrupt))
}

func TestMergeIsAdditive(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "status.json"))
	require.NoError(t, err)

	assert.Equal(t, 3, store.Merge(testTickers()))
	require.NoError(t, store.Apply("AAA.TO", model.StatusCompleted, "", nil))

	// Re-merging the same universe must not resurrect the completed ticker.
	assert.Equal(t, 0, store.Merge(testTickers()))
	rec, ok := store.Record("AAA.TO")
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, rec.Status)

	// A new symbol still gets in.
	assert.Equal(t, 1, store.Merge([]model.Ticker{
		{Symbol: "DDD", ProviderSymbol: "DDD.TO", Exchange: "TSX"},
	}))
	assert.Equal(t, 4, store.Stats().Total)
}

func TestPendingSorted(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "status.json"))
	require.NoError(t, err)
	store.Merge([]model.Ticker{
		{Symbol: "ZZZ", ProviderSymbol: "ZZZ.TO"},
		{Symbol: "AAA", ProviderSymbol: "AAA.TO"},
		{Symbol: "MMM", ProviderSymbol: "MMM.TO"},
	})

	pending := store.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, "AAA.TO", pending[0].ProviderSymbol)
	assert.Equal(t, "MMM.TO", pending[1].ProviderSymbol)
	assert.Equal(t, "ZZZ.TO", pending[2].ProviderSymbol)
}

func TestApplyTransitions(t *testing.T) {
	mcap := 50_000_000.0

	tests := []struct {
		name    string
		symbol  string
		status  model.Status
		reason  string
		mcap    *float64
		setup   func(*Store)
		wantErr bool
	}{
		{
			name:   "pending to completed",
			symbol: "AAA.TO",
			status: model.StatusCompleted,
			mcap:   &mcap,
		},
		{
			name:   "pending to skipped",
			symbol: "BBB.V",
			status: model.StatusSkipped,
			reason: "no market data available",
		},
		{
			name:   "pending to failed",
			symbol: "CCC.CN",
			status: model.StatusFailed,
			reason: "http 500",
		},
		{
			name:    "unknown symbol",
			symbol:  "NOPE.TO",
			status:  model.StatusCompleted,
			wantErr: true,
		},
		{
			name:   "terminal record rejects a second transition",
			symbol: "AAA.TO",
			status: model.StatusSkipped,
			setup: func(s *Store) {
				require.NoError(t, s.Apply("AAA.TO", model.StatusCompleted, "", &mcap))
			},
			wantErr: true,
		},
		{
			name:    "pending is not a valid target",
			symbol:  "AAA.TO",
			status:  model.StatusPending,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(filepath.Join(t.TempDir(), "status.json"))
			require.NoError(t, err)
			store.Merge(testTickers())
			if tt.setup != nil {
				tt.setup(store)
			}

			err = store.Apply(tt.symbol, tt.status, tt.reason, tt.mcap)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrInvalidTransition))
				return
			}
			require.NoError(t, err)

			rec, ok := store.Record(tt.symbol)
			require.True(t, ok)
			assert.Equal(t, tt.status, rec.Status)
			assert.Equal(t, tt.reason, rec.Reason)
			if tt.mcap != nil {
				require.NotNil(t, rec.MarketCap)
				assert.Equal(t, *tt.mcap, *rec.MarketCap)
			}
		})
	}
}

func TestResetAndResetFailed(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "status.json"))
	require.NoError(t, err)
	store.Merge(testTickers())

	require.NoError(t, store.Apply("AAA.TO", model.StatusCompleted, "", nil))
	require.NoError(t, store.Apply("BBB.V", model.StatusFailed, "http 500", nil))
	require.NoError(t, store.Apply("CCC.CN", model.StatusFailed, "timeout", nil))

	assert.Equal(t, 2, store.ResetFailed())
	assert.Equal(t, 0, store.ResetFailed())
	assert.Len(t, store.Pending(), 2)

	// Completed ticker is untouched by ResetFailed but resettable by name.
	rec, _ := store.Record("AAA.TO")
	assert.Equal(t, model.StatusCompleted, rec.Status)
	require.NoError(t, store.Reset("AAA.TO"))
	rec, _ = store.Record("AAA.TO")
	assert.Equal(t, model.StatusPending, rec.Status)

	require.Error(t, store.Reset("NOPE.TO"))
}

func TestSaveRecomputesStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	store, err := Open(path)
	require.NoError(t, err)
	store.Merge(testTickers())
	require.NoError(t, store.Apply("AAA.TO", model.StatusCompleted, "", nil))
	require.NoError(t, store.Apply("BBB.V", model.StatusSkipped, "below minimum", nil))
	require.NoError(t, store.Save())

	var doc model.Document
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, model.Stats{Total: 3, Completed: 1, Skipped: 1, Pending: 1}, doc.Stats)
	assert.False(t, doc.LastUpdated.IsZero())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	store, err := Open(path)
	require.NoError(t, err)
	store.Merge(testTickers())
	mcap := 25_000_000.0
	require.NoError(t, store.Apply("AAA.TO", model.StatusCompleted, "", &mcap))
	require.NoError(t, store.Apply("BBB.V", model.StatusFailed, "http 503", nil))
	require.NoError(t, store.Save())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, store.Stats(), reopened.Stats())

	rec, ok := reopened.Record("AAA.TO")
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	require.NotNil(t, rec.MarketCap)
	assert.Equal(t, mcap, *rec.MarketCap)

	rec, ok = reopened.Record("BBB.V")
	require.True(t, ok)
	assert.Equal(t, "http 503", rec.Reason)

	// Only CCC.CN is still pending after reload.
	pending := reopened.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "CCC.CN", pending[0].ProviderSymbol)
}

func TestByStatus(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "status.json"))
	require.NoError(t, err)
	store.Merge(testTickers())
	require.NoError(t, store.Apply("CCC.CN", model.StatusFailed, "boom", nil))
	require.NoError(t, store.Apply("BBB.V", model.StatusFailed, "boom", nil))

	assert.Equal(t, []string{"BBB.V", "CCC.CN"}, store.ByStatus(model.StatusFailed))
	assert.Equal(t, []string{"AAA.TO"}, store.ByStatus(model.StatusPending))
}
