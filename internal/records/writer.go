// Package records persists normalized per-ticker output records.
package records

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/vettr/ingest-cli/internal/fsutil"
	"github.com/vettr/ingest-cli/internal/model"
)

// Writer persists one JSON record per provider symbol under a directory.
// Writes are atomic and last-write-wins: re-fetching a symbol after a crash
// simply overwrites the previous record.
type Writer struct {
	dir string
}

// NewWriter creates a record writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the record path for a provider symbol.
func (w *Writer) Path(providerSymbol string) string {
	return filepath.Join(w.dir, providerSymbol+".json")
}

// Write persists the record for the symbol, fully replacing any prior one.
func (w *Writer) Write(providerSymbol string, rec *model.StockRecord) error {
	if err := fsutil.WriteJSONAtomic(w.Path(providerSymbol), rec); err != nil {
		return eris.Wrapf(err, "records: write %s", providerSymbol)
	}
	return nil
}

// Exists reports whether a record has been written for the symbol.
func (w *Writer) Exists(providerSymbol string) bool {
	_, err := os.Stat(w.Path(providerSymbol))
	return err == nil
}
