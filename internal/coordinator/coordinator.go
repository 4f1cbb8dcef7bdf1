// Package coordinator drives one refresh run: it partitions the watchlist
// into batches, fetches each batch in sequence, parses the records and
// assembles the output rows.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jirong-gao/stocks/internal/fetcher"
	"github.com/jirong-gao/stocks/internal/tencent"
)

// TimestampCode is the sentinel query code of the metadata row, used by the
// spreadsheet's VLOOKUP to find the fetch time.
const TimestampCode = "tmquotes"

// timestampLayout is the fetch-time format written into the metadata row.
const timestampLayout = "2006-01-02 15:04:05"

// header is the first output row. Column names are what the spreadsheet
// displays; fund rows reuse the leading columns with fund semantics.
var header = []string{
	"查询代码", "证券代码", "市场", "名称", "价格", "涨跌", "涨跌幅(%)", "PE", "PB", "总市值",
}

// Coordinator runs the fetch-parse loop for a full watchlist.
type Coordinator struct {
	fetcher   fetcher.BatchFetcher
	batchSize int

	// now is swapped out in tests to pin the metadata row.
	now func() time.Time
}

// New creates a Coordinator that fetches batches of at most batchSize codes
// through f, strictly one batch at a time. The upstream API truncates
// responses for large requests, so batchSize should stay at or below 20.
func New(f fetcher.BatchFetcher, batchSize int) *Coordinator {
	return &Coordinator{
		fetcher:   f,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run fetches quotes for all codes and returns the output rows: the header,
// the timestamp metadata row, then one row per successfully parsed quote in
// watchlist order.
//
// Failures degrade instead of aborting: a batch whose fetch fails (after the
// client's retries) contributes no rows, and a record that fails to parse is
// logged and skipped. Run only errors when there is nothing to do or the
// context is canceled between batches.
func (c *Coordinator) Run(ctx context.Context, codes []string) ([][]string, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("no query codes to refresh")
	}

	batches := Partition(codes, c.batchSize)
	fmt.Printf("Refreshing %d query codes in %d batches\n", len(codes), len(batches))

	rows := make([][]string, 0, len(codes)+2)
	rows = append(rows, header)
	rows = append(rows, []string{TimestampCode, "", "", "行情数据时间", c.now().Format(timestampLayout)})

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("refresh interrupted: %w", err)
		}

		segments, err := c.fetcher.FetchBatch(ctx, batch)
		if err != nil {
			// Partial results are fine; the other batches still count.
			slog.Warn("batch fetch failed, continuing without it",
				"batch", i+1,
				"codes", len(batch),
				"error", err)
			continue
		}

		for _, segment := range segments {
			// The trailing semicolon in the upstream body produces one
			// empty segment per batch.
			if segment == "" {
				continue
			}

			quote, err := tencent.ParseRecord(segment)
			if err != nil {
				slog.Warn("skipping malformed quote record",
					"batch", i+1,
					"error", err)
				continue
			}

			rows = append(rows, quote.Row())
		}
	}

	return rows, nil
}

// Partition splits codes into consecutive groups of at most size elements,
// preserving order within and across groups. The final group carries the
// remainder. A non-positive size yields a single group.
func Partition(codes []string, size int) [][]string {
	if size <= 0 {
		return [][]string{codes}
	}

	var groups [][]string
	for start := 0; start < len(codes); start += size {
		end := start + size
		if end > len(codes) {
			end = len(codes)
		}
		groups = append(groups, codes[start:end])
	}
	return groups
}
