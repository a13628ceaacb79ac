package usecase

import (
	"net/url"

	"github.com/solarprices/backend/internal/domain"
)

// SourcesConfig carries the runtime settings used to build source definitions
type SourcesConfig struct {
	BaseURLs      map[domain.SourceID]string
	Disabled      map[domain.SourceID]bool
	PreVATSources []domain.SourceID
	VAT           VATPolicy
}

func searchPath(baseURL, query string) string {
	return baseURL + "/search?q=" + url.QueryEscape(query)
}

func googleShoppingSearch(baseURL, query string) string {
	return baseURL + "/search?q=" + url.QueryEscape(query+" precio españa") + "&tbm=shop"
}

// DefaultSourceDefinitions returns the definitions of every scraped source.
// Fallback-only sources (alacen) are not listed.
func DefaultSourceDefinitions(cfg SourcesConfig) []SourceDefinition {
	defs := []SourceDefinition{
		{ID: domain.SourceObramat, BaseURL: "https://www.obramat.es", SearchURL: searchPath, Patterns: obramatPatterns},
		{ID: domain.SourceLeroy, BaseURL: "https://www.leroymerlin.es", SearchURL: searchPath, Patterns: leroyPatterns},
		{ID: domain.SourceGoogle, BaseURL: "https://www.google.com", SearchURL: googleShoppingSearch, Patterns: googlePatterns},
	}

	preVAT := make(map[domain.SourceID]bool, len(cfg.PreVATSources))
	for _, s := range cfg.PreVATSources {
		preVAT[s] = true
	}

	threshold, rate := cfg.VAT.Threshold, cfg.VAT.Rate
	if threshold.IsZero() {
		threshold = DefaultVATThreshold
	}
	if rate.IsZero() {
		rate = DefaultVATRate
	}

	out := make([]SourceDefinition, 0, len(defs))
	for _, def := range defs {
		if cfg.Disabled[def.ID] {
			continue
		}
		if base, ok := cfg.BaseURLs[def.ID]; ok && base != "" {
			def.BaseURL = base
		}
		if preVAT[def.ID] {
			def.VAT = PreVATPolicy(threshold, rate)
		}
		out = append(out, def)
	}
	return out
}

// NewFetchers builds the closed source -> fetcher table
func NewFetchers(
	defs []SourceDefinition,
	client domain.PageClient,
	catalog domain.CatalogRepository,
	extractor *PriceExtractor,
) []domain.PriceFetcher {
	fetchers := make([]domain.PriceFetcher, 0, len(defs))
	for _, def := range defs {
		fetchers = append(fetchers, NewScrapingFetcher(def, client, catalog, extractor))
	}
	return fetchers
}
