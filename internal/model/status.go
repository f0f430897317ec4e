package model

import "time"

// Status is the lifecycle state of one ticker in the ingestion pipeline.
// Pending is the only retryable state; the three terminal states are never
// left automatically; reverting requires an explicit reset.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

// ProgressRecord tracks one ticker through an ingestion run, keyed in the
// status document by provider symbol.
type ProgressRecord struct {
	Status   Status `json:"status"`
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	// Reason explains a skipped or failed outcome; empty otherwise.
	Reason string `json:"reason,omitempty"`
	// MarketCap is the observed market capitalization, set on completion.
	MarketCap *float64 `json:"market_cap,omitempty"`
}

// Stats holds the aggregate counters of the status document.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Pending   int `json:"pending"`
}

// Document is the durable status file: the full progress mapping plus
// counters derived from it. Counters are recomputed on every save and never
// trusted as independently maintained state.
type Document struct {
	StartedAt   time.Time                  `json:"started_at"`
	LastUpdated time.Time                  `json:"last_updated"`
	Tickers     map[string]*ProgressRecord `json:"tickers"`
	Stats       Stats                      `json:"stats"`
}

// Summarize recomputes aggregate counters from the progress mapping.
func Summarize(tickers map[string]*ProgressRecord) Stats {
	s := Stats{Total: len(tickers)}
	for _, rec := range tickers {
		switch rec.Status {
		case StatusCompleted:
			s.Completed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusPending:
			s.Pending++
		}
	}
	return s
}
