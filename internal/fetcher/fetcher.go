package fetcher

import "context"

// BatchFetcher is the interface the coordinator uses to pull one batch of
// raw quote records from the upstream quote API.
type BatchFetcher interface {
	// FetchBatch issues one API call for the given query codes and returns
	// the decoded response split into semicolon-delimited segments.
	//
	// The upstream body normally ends with a trailing ';', so the final
	// segment is typically the empty string. That segment is returned as-is;
	// callers must skip empty segments rather than treat them as records.
	FetchBatch(ctx context.Context, codes []string) ([]string, error)
}
