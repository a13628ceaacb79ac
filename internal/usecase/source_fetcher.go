package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/solarprices/backend/internal/domain"
)

// SourceDefinition is the fixed configuration of one scraped retailer.
type SourceDefinition struct {
	ID        domain.SourceID
	BaseURL   string
	SearchURL func(baseURL, query string) string
	Patterns  PatternSet
	VAT       VATPolicy
}

// ScrapingFetcher implements domain.PriceFetcher for one SourceDefinition
type ScrapingFetcher struct {
	def       SourceDefinition
	client    domain.PageClient
	catalog   domain.CatalogRepository
	extractor *PriceExtractor
}

// NewScrapingFetcher creates a fetcher for def
func NewScrapingFetcher(
	def SourceDefinition,
	client domain.PageClient,
	catalog domain.CatalogRepository,
	extractor *PriceExtractor,
) *ScrapingFetcher {
	if extractor == nil {
		extractor = NewPriceExtractor(nil)
	}
	return &ScrapingFetcher{
		def:       def,
		client:    client,
		catalog:   catalog,
		extractor: extractor,
	}
}

// Source returns the retailer this fetcher scrapes
func (f *ScrapingFetcher) Source() domain.SourceID {
	return f.def.ID
}

// TargetURL prefers the product's direct URL on this source and otherwise
// builds a search URL from its search query.
func (f *ScrapingFetcher) TargetURL(product domain.ProductDescriptor) string {
	if loc, ok := product.Locator(f.def.ID); ok && loc.DirectURL != "" {
		return loc.DirectURL
	}
	return f.def.SearchURL(strings.TrimRight(f.def.BaseURL, "/"), product.SearchQuery)
}

// FetchPrice fetches the product page and extracts a per-unit price.
// Flow: resolve URL -> GET -> structured data -> markup rules -> blocked or
// parse failure
func (f *ScrapingFetcher) FetchPrice(ctx context.Context, key domain.ProductKey) domain.FetchOutcome {
	product, ok := f.catalog.Product(key)
	if !ok {
		return domain.Failed(domain.OutcomeUnknownProduct, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, key), nil)
	}

	target := f.TargetURL(product)
	raw, err := f.client.FetchPage(ctx, target)
	if err != nil {
		return domain.Failed(classifyFetchError(ctx, err), err, raw)
	}

	if price, ok := f.extractStructured(raw.HTML); ok {
		log.Debug().
			Str("source", string(f.def.ID)).
			Str("product", string(key)).
			Str("rule", price.Rule).
			Str("gross", price.GrossPrice.String()).
			Int("quantity", price.Quantity).
			Str("unit", price.UnitPrice.String()).
			Bool("vat_adjusted", price.VATAdjusted).
			Msg("structured price extracted")
		return domain.Extracted(price, raw)
	}

	if price, ok := f.extractor.Extract(raw.HTML, f.def.Patterns.Markup); ok {
		log.Debug().
			Str("source", string(f.def.ID)).
			Str("product", string(key)).
			Str("rule", price.Rule).
			Str("gross", price.GrossPrice.String()).
			Int("quantity", price.Quantity).
			Str("unit", price.UnitPrice.String()).
			Msg("markup price extracted")
		return domain.Extracted(price, raw)
	}

	if raw.BlockReason != "" {
		return domain.Failed(domain.OutcomeBlocked,
			fmt.Errorf("%w: %s", domain.ErrBlockedPage, raw.BlockReason), raw)
	}

	return domain.Failed(domain.OutcomeParseFailure,
		fmt.Errorf("%w: %s %s", domain.ErrParseFailure, f.def.ID, target), raw)
}

// extractStructured runs the structured-data rules with the source's VAT
// policy. A page that states VAT is included overrides a pre-VAT policy and
// the mismatch is logged.
func (f *ScrapingFetcher) extractStructured(html string) (*domain.ExtractedPrice, bool) {
	match, ok := FirstMatch(html, f.def.Patterns.Structured)
	if !ok {
		return nil, false
	}

	policy := f.def.VAT
	if policy.applies(match.Gross) && StatesVATIncluded(f.extractor.Window(html, match.Offset)) {
		log.Warn().
			Str("source", string(f.def.ID)).
			Str("gross", match.Gross.String()).
			Msg("pre-VAT policy contradicted by page text, skipping VAT adjustment")
		policy = NoVAT
	}

	return f.extractor.ExtractWithPolicy(html, f.def.Patterns.Structured, policy)
}

// classifyFetchError maps a page client error onto an outcome kind
func classifyFetchError(ctx context.Context, err error) domain.OutcomeKind {
	switch {
	case errors.Is(err, domain.ErrFetchTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.OutcomeTimeout
	case errors.Is(err, domain.ErrHTTPStatus):
		return domain.OutcomeHTTPError
	default:
		return domain.OutcomeFetchFailed
	}
}
