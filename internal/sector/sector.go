// Package sector maps provider sector/industry strings onto the fixed set
// of VETTR sector categories. The mapping is a static keyword table biased
// toward the resource-heavy composition of the Canadian venture exchanges.
package sector

import "strings"

type rule struct {
	category string
	industry []string
	sector   []string
}

// Rules are ordered: the first match wins, so specific commodities take
// precedence over generic "mining" or "metal" matches.
var rules = []rule{
	{category: "Gold", industry: []string{"gold"}, sector: []string{"gold"}},
	{category: "Silver", industry: []string{"silver"}, sector: []string{"silver"}},
	{category: "Copper", industry: []string{"copper"}},
	{category: "Uranium", industry: []string{"uranium"}, sector: []string{"uranium"}},
	{category: "Lithium", industry: []string{"lithium"}},
	{category: "Nickel", industry: []string{"nickel"}},
	{category: "Zinc", industry: []string{"zinc"}},
	{category: "Precious Metals", industry: []string{"precious metal"}},
	{category: "Base Metals", industry: []string{"metal", "base metal"}},
	{category: "Mining", industry: []string{"mining"}, sector: []string{"mining"}},
	{category: "Oil & Gas", industry: []string{"oil", "gas", "petroleum"}},
	{category: "Cannabis", industry: []string{"cannabis", "marijuana"}},
	{category: "Biotech", industry: []string{"biotech", "pharmaceutical"}},
	{category: "Technology", industry: []string{"software", "tech"}, sector: []string{"technology"}},
	{category: "Financial Services", industry: []string{"bank"}, sector: []string{"financial"}},
	{category: "Real Estate", industry: []string{"reit"}, sector: []string{"real estate"}},
	{category: "Energy", sector: []string{"energy"}},
	{category: "Healthcare", sector: []string{"health"}},
	{category: "Industrial", sector: []string{"industrial"}},
	{category: "Consumer", sector: []string{"consumer"}},
	{category: "Communications", sector: []string{"communication"}},
	{category: "Utilities", sector: []string{"utilities"}},
}

// Map returns the VETTR category for the given provider sector and industry
// strings. Unmatched inputs fall back to the raw sector, then to "Other".
func Map(sectorName, industryName string) string {
	sec := strings.ToLower(sectorName)
	ind := strings.ToLower(industryName)

	for _, r := range rules {
		for _, kw := range r.industry {
			if strings.Contains(ind, kw) {
				return r.category
			}
		}
		for _, kw := range r.sector {
			if strings.Contains(sec, kw) {
				return r.category
			}
		}
	}

	if sectorName != "" {
		return sectorName
	}
	return "Other"
}
