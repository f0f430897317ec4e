package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSymbols(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "basic entries",
			raw:  "TSXVAbc Mining CorpABCTSXVGreat Gold Inc.GGITSXVNorthern Lithium LtdNLI",
			want: []string{"ABC", "GGI", "NLI"},
		},
		{
			name: "class suffix kept",
			raw:  "TSXVBrookfield Asset ManagementBAM.A",
			want: []string{"BAM.A"},
		},
		{
			name: "capital pool and inactive dropped",
			raw:  "TSXVShell Capital CorpSHL.PTSXVDormant Holdings LtdDHL.HTSXVReal Venture IncRVI",
			want: []string{"RVI"},
		},
		{
			name: "duplicates collapse",
			raw:  "TSXVAbc CorpABCTSXVAbc Corp AgainABC",
			want: []string{"ABC"},
		},
		{
			name: "whitespace tolerated",
			raw:  "  TSXVAbc Corp ABC \n TSXVDef Resources DEF \n",
			want: []string{"ABC", "DEF"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "entry without trailing symbol ignored",
			raw:  "TSXVlowercase name only",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSymbols(tt.raw))
		})
	}
}

func TestProviderSymbol(t *testing.T) {
	tests := []struct {
		sym    string
		suffix string
		want   string
	}{
		{"ABC", ".TO", "ABC.TO"},
		{"BAM.A", ".TO", "BAM-A.TO"},
		{"XYZ", ".V", "XYZ.V"},
		{"NEW", ".CN", "NEW.CN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProviderSymbol(tt.sym, tt.suffix))
	}
}
