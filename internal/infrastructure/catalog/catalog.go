// Package catalog holds the static product catalog and the manually curated
// fallback price table. Both are built once at startup and never mutated.
package catalog

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
)

// Catalog is an immutable, in-memory implementation of
// domain.CatalogRepository.
type Catalog struct {
	products map[domain.ProductKey]domain.ProductDescriptor
	order    []domain.ProductKey
	fallback domain.FallbackTable
}

// New builds a catalog from descriptors and a fallback table. Both inputs are
// copied so later changes by the caller are not observed.
func New(products []domain.ProductDescriptor, fallback domain.FallbackTable) *Catalog {
	c := &Catalog{
		products: make(map[domain.ProductKey]domain.ProductDescriptor, len(products)),
		fallback: make(domain.FallbackTable, len(fallback)),
	}

	for _, p := range products {
		locators := make(map[domain.SourceID]domain.Locator, len(p.Locators))
		for src, loc := range p.Locators {
			locators[src] = loc
		}
		p.Locators = locators
		if _, dup := c.products[p.Key]; !dup {
			c.order = append(c.order, p.Key)
		}
		c.products[p.Key] = p
	}

	for src, prices := range fallback {
		table := make(map[domain.ProductKey]decimal.Decimal, len(prices))
		for k, v := range prices {
			table[k] = v
		}
		c.fallback[src] = table
	}

	return c
}

// Default returns the built-in solar mounting catalog.
func Default() *Catalog {
	return New(defaultProducts(), defaultFallback())
}

// DefaultWithURLs returns the built-in catalog with direct product page URLs
// registered per source. Empty URLs are ignored; unknown product keys are
// rejected.
func DefaultWithURLs(urls map[domain.SourceID]map[domain.ProductKey]string) (*Catalog, error) {
	products := defaultProducts()
	index := make(map[domain.ProductKey]int, len(products))
	for i, p := range products {
		index[p.Key] = i
	}

	for source, byProduct := range urls {
		for key, pageURL := range byProduct {
			i, ok := index[key]
			if !ok {
				return nil, fmt.Errorf("%w: %s (direct URL for %s)", domain.ErrUnknownProduct, key, source)
			}
			if pageURL == "" {
				continue
			}
			if products[i].Locators == nil {
				products[i].Locators = make(map[domain.SourceID]domain.Locator)
			}
			products[i].Locators[source] = domain.Locator{DirectURL: pageURL}
		}
	}

	return New(products, defaultFallback()), nil
}

// Product returns the descriptor for key.
func (c *Catalog) Product(key domain.ProductKey) (domain.ProductDescriptor, bool) {
	p, ok := c.products[key]
	return p, ok
}

// Products returns all descriptors in catalog order.
func (c *Catalog) Products() []domain.ProductDescriptor {
	out := make([]domain.ProductDescriptor, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.products[k])
	}
	return out
}

// Fallback returns the fallback table. The returned value must be treated as
// read-only; use FallbackTable.Prices to get a mutable copy.
func (c *Catalog) Fallback() domain.FallbackTable {
	return c.fallback
}

// Keys returns the product keys of a fallback table for source, sorted.
func Keys(prices map[domain.ProductKey]decimal.Decimal) []domain.ProductKey {
	keys := make([]domain.ProductKey, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
