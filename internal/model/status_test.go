package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusCompleted, true},
		{StatusSkipped, true},
		{StatusFailed, true},
		{Status("bogus"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Terminal(), string(tt.status))
	}
}

func TestSummarize(t *testing.T) {
	tickers := map[string]*ProgressRecord{
		"A.TO": {Status: StatusCompleted},
		"B.TO": {Status: StatusCompleted},
		"C.V":  {Status: StatusSkipped},
		"D.V":  {Status: StatusFailed},
		"E.CN": {Status: StatusPending},
	}

	assert.Equal(t, Stats{Total: 5, Completed: 2, Skipped: 1, Failed: 1, Pending: 1}, Summarize(tickers))
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestCatalogRecount(t *testing.T) {
	c := &Catalog{Tickers: []Ticker{
		{ProviderSymbol: "A.TO", Exchange: "TSX"},
		{ProviderSymbol: "B.TO", Exchange: "TSX"},
		{ProviderSymbol: "C.V", Exchange: "TSXV"},
	}}
	c.Recount()

	assert.Equal(t, map[string]int{"TSX": 2, "TSXV": 1}, c.Exchanges)
	assert.True(t, c.Has("C.V"))
	assert.False(t, c.Has("Z.CN"))
}
