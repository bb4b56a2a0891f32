package redis

import "context"

// SummaryStoreInterface defines the interface for summary list caching.
type SummaryStoreInterface interface {
	GetActive(ctx context.Context, kind string) ([]CachedSummary, error)
	SetActive(ctx context.Context, kind string, summaries []CachedSummary) error
	InvalidateActive(ctx context.Context, kind string) error
}

// Ensure concrete types implement interfaces.
var _ SummaryStoreInterface = (*CacheStore)(nil)
