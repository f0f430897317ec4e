package status

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/vettr/ingest-cli/internal/fsutil"
	"github.com/vettr/ingest-cli/internal/model"
)

// ErrCorrupt marks a status document that exists but fails to parse. It is
// fatal: the store is never silently replaced with an empty one, since that
// would discard all recorded progress.
var ErrCorrupt = eris.New("status: document corrupt")

// ErrInvalidTransition marks an attempt to terminalize a record that is not
// pending (or to touch an unknown symbol). It indicates double-processing
// within a run and aborts the batch rather than overwriting history.
var ErrInvalidTransition = eris.New("status: invalid transition")

// Store owns the durable ingestion status document. Single-writer
// discipline: one ingestion run mutates a Store at a time; methods are not
// safe for concurrent use.
type Store struct {
	path string
	doc  *model.Document
	now  func() time.Time
}

// Open loads the status document at path, creating an empty store in memory
// if none exists yet. A document that exists but fails to parse returns
// ErrCorrupt.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.doc = &model.Document{
			StartedAt: s.now().UTC(),
			Tickers:   make(map[string]*model.ProgressRecord),
		}
		return s, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "status: read %s", path)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(ErrCorrupt, "%s: %v", path, err)
	}
	if doc.Tickers == nil {
		doc.Tickers = make(map[string]*model.ProgressRecord)
	}
	s.doc = &doc
	return s, nil
}

// Merge inserts a pending record for every ticker not already present and
// returns the number added. Existing records are untouched, so re-running
// discovery only ever adds new work and never resets progress.
func (s *Store) Merge(tickers []model.Ticker) int {
	added := 0
	for _, t := range tickers {
		if _, ok := s.doc.Tickers[t.ProviderSymbol]; ok {
			continue
		}
		s.doc.Tickers[t.ProviderSymbol] = &model.ProgressRecord{
			Status:   model.StatusPending,
			Symbol:   t.Symbol,
			Exchange: t.Exchange,
		}
		added++
	}
	return added
}

// Pending returns the pending provider symbols in sorted order. The order is
// deterministic across calls so batch numbering is reproducible.
func (s *Store) Pending() []model.Ticker {
	var out []model.Ticker
	for sym, rec := range s.doc.Tickers {
		if rec.Status == model.StatusPending {
			out = append(out, model.Ticker{
				Symbol:         rec.Symbol,
				ProviderSymbol: sym,
				Exchange:       rec.Exchange,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProviderSymbol < out[j].ProviderSymbol
	})
	return out
}

// Apply transitions one record from pending to the given terminal status.
// reason is recorded for skipped/failed outcomes, marketCap for completed
// ones. Any transition other than pending→terminal returns
// ErrInvalidTransition.
func (s *Store) Apply(providerSymbol string, st model.Status, reason string, marketCap *float64) error {
	rec, ok := s.doc.Tickers[providerSymbol]
	if !ok {
		return eris.Wrapf(ErrInvalidTransition, "unknown symbol %s", providerSymbol)
	}
	if rec.Status != model.StatusPending {
		return eris.Wrapf(ErrInvalidTransition, "%s is already %s", providerSymbol, rec.Status)
	}
	if !st.Terminal() {
		return eris.Wrapf(ErrInvalidTransition, "%s: target status %s is not terminal", providerSymbol, st)
	}

	rec.Status = st
	rec.Reason = ""
	rec.MarketCap = nil
	switch st {
	case model.StatusCompleted:
		rec.MarketCap = marketCap
	case model.StatusSkipped, model.StatusFailed:
		rec.Reason = reason
	}
	return nil
}

// Reset returns one terminal record to pending. This is the only way a
// terminal record re-enters the pending set; it is an explicit operator
// action, never automatic.
func (s *Store) Reset(providerSymbol string) error {
	rec, ok := s.doc.Tickers[providerSymbol]
	if !ok {
		return eris.Errorf("status: unknown symbol %s", providerSymbol)
	}
	rec.Status = model.StatusPending
	rec.Reason = ""
	rec.MarketCap = nil
	return nil
}

// ResetFailed returns every failed record to pending and reports how many
// were reset. Used by the retry-failed policy and the reset command.
func (s *Store) ResetFailed() int {
	n := 0
	for _, rec := range s.doc.Tickers {
		if rec.Status == model.StatusFailed {
			rec.Status = model.StatusPending
			rec.Reason = ""
			n++
		}
	}
	return n
}

// Stats recomputes aggregate counters from the mapping.
func (s *Store) Stats() model.Stats {
	return model.Summarize(s.doc.Tickers)
}

// Record returns a copy of the progress record for the symbol.
func (s *Store) Record(providerSymbol string) (model.ProgressRecord, bool) {
	rec, ok := s.doc.Tickers[providerSymbol]
	if !ok {
		return model.ProgressRecord{}, false
	}
	return *rec, true
}

// ByStatus returns provider symbols currently in the given status, sorted.
func (s *Store) ByStatus(st model.Status) []string {
	var out []string
	for sym, rec := range s.doc.Tickers {
		if rec.Status == st {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// Save recomputes the counters and writes the full document atomically. A
// crash mid-save leaves the previously saved document readable.
func (s *Store) Save() error {
	s.doc.Stats = model.Summarize(s.doc.Tickers)
	s.doc.LastUpdated = s.now().UTC()
	if err := fsutil.WriteJSONAtomic(s.path, s.doc); err != nil {
		return eris.Wrap(err, "status: save")
	}
	return nil
}
