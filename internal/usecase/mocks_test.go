package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
	"github.com/solarprices/backend/internal/infrastructure/catalog"
)

// MockPageClient is a mock implementation of domain.PageClient
type MockPageClient struct {
	mu       sync.Mutex
	html     string
	status   int
	err      error
	block    bool
	blockBy  string
	requests []string
}

func NewMockPageClient(html string) *MockPageClient {
	return &MockPageClient{html: html, status: 200}
}

func (m *MockPageClient) FetchPage(ctx context.Context, url string) (*domain.RawFetchResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, url)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return &domain.RawFetchResult{URL: url}, ctx.Err()
	}

	result := &domain.RawFetchResult{URL: url, HTML: m.html, StatusCode: m.status, BlockReason: m.blockBy}
	if m.err != nil {
		return result, m.err
	}
	return result, nil
}

func (m *MockPageClient) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// MockPriceFetcher is a mock implementation of domain.PriceFetcher
type MockPriceFetcher struct {
	source  domain.SourceID
	outcome domain.FetchOutcome
	panics  bool
	wait    bool
	mu      sync.Mutex
	calls   int
}

func (m *MockPriceFetcher) Source() domain.SourceID { return m.source }

func (m *MockPriceFetcher) FetchPrice(ctx context.Context, key domain.ProductKey) domain.FetchOutcome {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panics {
		panic("fetcher blew up")
	}
	if m.wait {
		<-ctx.Done()
		return domain.Failed(domain.OutcomeTimeout, ctx.Err(), nil)
	}
	return m.outcome
}

func (m *MockPriceFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockPreferenceRepository is a mock implementation of domain.PreferenceRepository
type MockPreferenceRepository struct {
	data     map[string]string
	getError error
	setError error
	lastTTL  time.Duration
}

func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{data: make(map[string]string)}
}

func (m *MockPreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	if m.getError != nil {
		return "", m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return "", domain.ErrCacheMiss
}

func (m *MockPreferenceRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *MockPreferenceRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockPreferenceRepository) Size() int {
	return len(m.data)
}

// testCatalog holds two products and tables for obramat and alacen
func testCatalog() *catalog.Catalog {
	products := []domain.ProductDescriptor{
		{Key: "s10", DisplayName: "Presor lateral S10", SearchQuery: "presor lateral solar S10"},
		{
			Key:         "tapa",
			DisplayName: "Tapa final",
			SearchQuery: "tapa final perfil solar",
			Locators: map[domain.SourceID]domain.Locator{
				domain.SourceLeroy: {DirectURL: "https://retailer.test/p/tapa-final"},
			},
		},
	}
	fallback := domain.FallbackTable{
		domain.SourceObramat: {
			"s10":  decimal.RequireFromString("1.80"),
			"tapa": decimal.RequireFromString("0.75"),
		},
		domain.SourceAlacen: {
			"s10": decimal.RequireFromString("1.65"),
		},
	}
	return catalog.New(products, fallback)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
