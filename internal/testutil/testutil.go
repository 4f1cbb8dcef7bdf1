package testutil

import (
	"context"
)

// MockBatchFetcher is a mock implementation of the BatchFetcher interface for testing
type MockBatchFetcher struct {
	FetchBatchFunc func(ctx context.Context, codes []string) ([]string, error)

	// Calls records the code slices passed to FetchBatch, in order.
	Calls [][]string
}

// FetchBatch implements the BatchFetcher interface
func (m *MockBatchFetcher) FetchBatch(ctx context.Context, codes []string) ([]string, error) {
	m.Calls = append(m.Calls, codes)
	if m.FetchBatchFunc != nil {
		return m.FetchBatchFunc(ctx, codes)
	}
	return nil, nil
}

// NewMockBatchFetcher creates a mock that returns the same segments and error
// for every batch
func NewMockBatchFetcher(segments []string, err error) *MockBatchFetcher {
	return &MockBatchFetcher{
		FetchBatchFunc: func(ctx context.Context, codes []string) ([]string, error) {
			return segments, err
		},
	}
}
