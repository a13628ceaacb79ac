package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
)

// DefaultFetchTimeout bounds a single fetch when no timeout is configured
const DefaultFetchTimeout = 8 * time.Second

// PriceServiceConfig holds configuration for the price service
type PriceServiceConfig struct {
	FetchTimeout  time.Duration
	DefaultSource domain.SourceID
}

// PriceService resolves prices: scrape the registered fetcher, fall back to
// the static table on any failure. It never returns an error.
type PriceService struct {
	catalog       domain.CatalogRepository
	fetchers      map[domain.SourceID]domain.PriceFetcher
	fetchTimeout  time.Duration
	defaultSource domain.SourceID
	now           func() time.Time
}

// NewPriceService creates a price service. The fetcher table is fixed for
// the lifetime of the service.
func NewPriceService(
	catalog domain.CatalogRepository,
	fetchers []domain.PriceFetcher,
	config PriceServiceConfig,
) *PriceService {
	table := make(map[domain.SourceID]domain.PriceFetcher, len(fetchers))
	for _, f := range fetchers {
		table[f.Source()] = f
	}

	timeout := config.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	defaultSource := config.DefaultSource
	if defaultSource == "" {
		defaultSource = domain.SourceObramat
	}

	return &PriceService{
		catalog:       catalog,
		fetchers:      table,
		fetchTimeout:  timeout,
		defaultSource: defaultSource,
		now:           time.Now,
	}
}

// DefaultSource returns the source used for unknown source ids
func (s *PriceService) DefaultSource() domain.SourceID {
	return s.defaultSource
}

// HasFetcher reports whether source is scraped (false for fallback-only sources)
func (s *PriceService) HasFetcher(source domain.SourceID) bool {
	_, ok := s.fetchers[source]
	return ok
}

// NormalizeSource maps a raw source id onto a known source, using the
// default source for empty or unknown ids.
func (s *PriceService) NormalizeSource(raw string) domain.SourceID {
	id := domain.SourceID(strings.ToLower(strings.TrimSpace(raw)))
	if domain.IsKnownSource(id) {
		return id
	}
	return s.defaultSource
}

// Resolve returns the price of product on source.
// Flow: Fetching -> {Extracted | FetchFailed | Timeout} -> Done-Scraped | FallbackLookup -> Done-Fallback
func (s *PriceService) Resolve(ctx context.Context, source domain.SourceID, product domain.ProductKey) domain.ResolvedPrice {
	result := domain.ResolvedPrice{
		Product: product,
		Source:  source,
		Price:   decimal.Zero,
		Method:  domain.MethodFallback,
	}

	if fetcher, ok := s.fetchers[source]; ok {
		outcome := s.fetch(ctx, fetcher, product)
		switch outcome.Kind {
		case domain.OutcomeExtracted:
			if outcome.OK() {
				result.Price = outcome.Price.UnitPrice
				result.Method = domain.MethodScraped
				result.Timestamp = s.now().UTC()
				log.Info().
					Str("source", string(source)).
					Str("product", string(product)).
					Str("price", result.Price.String()).
					Str("url", outcome.URL).
					Dur("duration", outcome.Duration).
					Msg("price scraped")
				return result
			}
			log.Warn().
				Str("source", string(source)).
				Str("product", string(product)).
				Msg("scraped price not positive, using fallback table")
		default:
			log.Warn().
				Err(outcome.Err).
				Str("source", string(source)).
				Str("product", string(product)).
				Str("outcome", outcome.Kind.String()).
				Int("status", outcome.StatusCode).
				Msg("scraping failed, using fallback table")
		}
	}

	if price, ok := s.catalog.Fallback().Lookup(source, product); ok && !price.IsNegative() {
		result.Price = price
	} else {
		log.Debug().
			Str("source", string(source)).
			Str("product", string(product)).
			Msg("no fallback price")
	}

	result.Timestamp = s.now().UTC()
	return result
}

// fetch runs the fetcher under the fetch timeout. Panics are converted into
// a FetchFailed outcome.
func (s *PriceService) fetch(ctx context.Context, fetcher domain.PriceFetcher, product domain.ProductKey) (outcome domain.FetchOutcome) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			outcome = domain.Failed(domain.OutcomeFetchFailed,
				fmt.Errorf("%w: fetcher panic: %v", domain.ErrNetworkFailure, r), nil)
		}
	}()

	return fetcher.FetchPrice(ctx, product)
}

// Table returns the fallback table for source without any network access.
// Sources without a table (unknown or scrape-only) get the default source's
// table; the returned id is the source whose table was used.
func (s *PriceService) Table(source domain.SourceID) (domain.SourceID, map[domain.ProductKey]decimal.Decimal) {
	if prices, ok := s.catalog.Fallback().Prices(source); ok {
		return source, prices
	}
	prices, ok := s.catalog.Fallback().Prices(s.defaultSource)
	if !ok {
		prices = map[domain.ProductKey]decimal.Decimal{}
	}
	return s.defaultSource, prices
}

// Products returns the catalog entries
func (s *PriceService) Products() []domain.ProductDescriptor {
	return s.catalog.Products()
}
