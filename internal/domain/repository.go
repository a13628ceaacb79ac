package domain

import (
	"context"
	"time"
)

// PageClient fetches raw retailer pages.
type PageClient interface {
	// FetchPage issues a GET for pageURL. A non-2xx answer is returned
	// together with ErrHTTPStatus so callers can still inspect the status.
	FetchPage(ctx context.Context, pageURL string) (*RawFetchResult, error)
}

// PriceFetcher scrapes one source for a per-unit price.
type PriceFetcher interface {
	Source() SourceID
	FetchPrice(ctx context.Context, product ProductKey) FetchOutcome
}

// CatalogRepository gives read-only access to the product catalog and the
// fallback price table.
type CatalogRepository interface {
	Product(key ProductKey) (ProductDescriptor, bool)
	Products() []ProductDescriptor
	Fallback() FallbackTable
}

// PreferenceRepository is a small key-value store for UI preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Size() int
}
