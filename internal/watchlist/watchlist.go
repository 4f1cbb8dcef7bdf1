// Package watchlist reads the file of security query codes to refresh.
//
// The file is plain UTF-8 text with one query code per line. Lines may carry
// extra comma-separated fields (notes, purchase prices); only the first field
// is used. A query code is Market + Symbol, where Market is one of
// sh, sz, hk (exchanges) or s_jj (funds), case-sensitive.
package watchlist

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Load reads the watchlist at path and returns the query codes in file
// order, duplicates preserved. Blank lines and lines whose first field is
// whitespace-only are skipped. An empty file yields an empty, non-nil slice;
// a missing or unreadable file is an error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchlist %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Lines are free-form notes after the code; don't enforce a column count.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}

	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		// Keep the code as written; only whitespace-only entries are dropped,
		// so future market prefixes pass through without a code change here.
		if strings.TrimSpace(row[0]) == "" {
			continue
		}
		codes = append(codes, row[0])
	}

	return codes, nil
}
