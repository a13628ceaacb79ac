package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceID identifies a retailer whose pages are scraped or whose fallback
// prices are stored.
type SourceID string

const (
	SourceObramat SourceID = "obramat"
	SourceLeroy   SourceID = "leroy"
	SourceGoogle  SourceID = "google"
	SourceAlacen  SourceID = "alacen" // fallback-only
)

// KnownSources is the closed set of supported sources.
var KnownSources = []SourceID{SourceObramat, SourceLeroy, SourceGoogle, SourceAlacen}

// IsKnownSource reports whether id is one of KnownSources.
func IsKnownSource(id SourceID) bool {
	for _, s := range KnownSources {
		if s == id {
			return true
		}
	}
	return false
}

// ProductKey is the stable identifier of a catalog entry (e.g. "s10").
type ProductKey string

// Locator tells a source fetcher where a product lives on that retailer.
type Locator struct {
	DirectURL string `json:"directUrl,omitempty"`
}

// ProductDescriptor is a static catalog entry.
type ProductDescriptor struct {
	Key         ProductKey           `json:"key"`
	DisplayName string               `json:"displayName"`
	SearchQuery string               `json:"searchQuery"`
	Locators    map[SourceID]Locator `json:"locators,omitempty"`
}

// Locator returns the locator registered for source, if any.
func (p ProductDescriptor) Locator(source SourceID) (Locator, bool) {
	loc, ok := p.Locators[source]
	return loc, ok
}

// RawFetchResult is the page body returned by a retailer for one resolution.
type RawFetchResult struct {
	Source      SourceID
	Product     ProductKey
	URL         string
	HTML        string
	StatusCode  int
	Duration    time.Duration
	BlockReason string // non-empty when the page looks like a bot wall
}

// ExtractedPrice is a price read from a page and normalized to one unit.
type ExtractedPrice struct {
	GrossPrice  decimal.Decimal `json:"grossPrice"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VATAdjusted bool            `json:"vatAdjusted"`
	Rule        string          `json:"rule,omitempty"` // name of the rule that matched
}

// PriceMethod tells how a resolved price was obtained.
type PriceMethod string

const (
	MethodScraped  PriceMethod = "scraped"
	MethodFallback PriceMethod = "fallback"
)

// ResolvedPrice is the unit of output returned to callers.
type ResolvedPrice struct {
	Product   ProductKey      `json:"product"`
	Source    SourceID        `json:"source"`
	Price     decimal.Decimal `json:"price"`
	Method    PriceMethod     `json:"method"`
	Timestamp time.Time       `json:"timestamp"`
}

// FallbackTable holds manually curated prices per source and product.
type FallbackTable map[SourceID]map[ProductKey]decimal.Decimal

// Lookup returns the stored price for (source, product).
func (t FallbackTable) Lookup(source SourceID, product ProductKey) (decimal.Decimal, bool) {
	prices, ok := t[source]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := prices[product]
	return price, ok
}

// Prices returns a copy of the table for source. The second value is false
// when the source has no table.
func (t FallbackTable) Prices(source SourceID) (map[ProductKey]decimal.Decimal, bool) {
	prices, ok := t[source]
	if !ok {
		return nil, false
	}
	out := make(map[ProductKey]decimal.Decimal, len(prices))
	for k, v := range prices {
		out[k] = v
	}
	return out, true
}
