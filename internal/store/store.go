// Package store writes the quote rows to the flat file the spreadsheet
// data connection reads.
package store

import (
	"fmt"
	"os"
	"strings"
)

// Delimiter separates fields in the output file. The spreadsheet's data
// connection is configured for '~'; field values are assumed not to contain
// it, so there is no escaping scheme.
const Delimiter = "~"

// Save overwrites the file at path with the given rows, one per line, fields
// joined with the tilde delimiter. An empty row set is a no-op: an existing
// file keeps its previous contents rather than being truncated.
//
// The write is whole-file but not atomic. A crash mid-write leaves a partial
// file, which the overwrite-every-run model tolerates.
func Save(path string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, Delimiter))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write quote file %s: %w", path, err)
	}

	return nil
}
