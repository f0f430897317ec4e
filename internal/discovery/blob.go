package discovery

import (
	"regexp"
	"strings"
)

// symbolAtEnd matches the trailing ticker symbol of one blob entry: 1-6
// uppercase alphanumerics, optionally with a one-letter class suffix.
var symbolAtEnd = regexp.MustCompile(`([A-Z][A-Z0-9]{0,5}(?:\.[A-Z])?)$`)

// ExtractSymbols parses a raw TSXV listing blob of the form
// "TSXV{CompanyName}{SYMBOL}" repeated without delimiters. Each entry starts
// with "TSXV" and ends with the symbol, which is recovered as the trailing
// run of uppercase characters. Capital pool (.P) and inactive (.H) symbols
// are dropped.
func ExtractSymbols(raw string) []string {
	var symbols []string
	seen := map[string]struct{}{}

	for _, part := range strings.Split(strings.TrimSpace(raw), "TSXV") {
		part = strings.TrimRight(strings.TrimSpace(part), " \t\r\n")
		if part == "" {
			continue
		}

		m := symbolAtEnd.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		sym := m[1]
		if strings.HasSuffix(sym, ".P") || strings.HasSuffix(sym, ".H") {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}

	return symbols
}
