package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/domain"
)

var (
	minGrossPrice = decimal.Zero
	maxGrossPrice = decimal.NewFromInt(10000)
)

// PriceExtractor reads the first valid price out of a page
type PriceExtractor struct {
	detector *QuantityDetector
}

// NewPriceExtractor creates an extractor using detector for pack sizes
func NewPriceExtractor(detector *QuantityDetector) *PriceExtractor {
	if detector == nil {
		detector = NewQuantityDetector(DefaultQuantityWindow)
	}
	return &PriceExtractor{detector: detector}
}

// Match is the first valid price candidate found by a rule list.
type Match struct {
	Gross  decimal.Decimal
	Offset int
	Rule   string
}

// FirstMatch tries rules in order and returns the first whose capture parses
// to a price within (0, 10000). Only the first occurrence of each rule is
// considered.
func FirstMatch(html string, rules []Rule) (Match, bool) {
	for _, r := range rules {
		loc := r.Pattern.FindStringSubmatchIndex(html)
		if loc == nil || len(loc) < 4 || loc[2] < 0 {
			continue
		}

		gross, ok := ParsePrice(html[loc[2]:loc[3]])
		if !ok {
			continue
		}

		return Match{Gross: gross, Offset: loc[2], Rule: r.Name}, true
	}
	return Match{}, false
}

// Extract returns the normalized price of the first valid match, with pack
// quantity applied and no VAT adjustment. It returns nil, false when no rule
// yields a valid price.
func (e *PriceExtractor) Extract(html string, rules []Rule) (*domain.ExtractedPrice, bool) {
	return e.ExtractWithPolicy(html, rules, NoVAT)
}

// ExtractWithPolicy is Extract with an explicit VAT policy.
func (e *PriceExtractor) ExtractWithPolicy(html string, rules []Rule, policy VATPolicy) (*domain.ExtractedPrice, bool) {
	match, ok := FirstMatch(html, rules)
	if !ok {
		return nil, false
	}

	quantity := e.detector.DetectQuantity(html, match.Offset)
	unit, vatAdjusted := NormalizeUnitPrice(match.Gross, quantity, policy)

	return &domain.ExtractedPrice{
		GrossPrice:  match.Gross,
		Quantity:    quantity,
		UnitPrice:   unit,
		VATAdjusted: vatAdjusted,
		Rule:        match.Rule,
	}, true
}

// Window exposes the detector window around offset.
func (e *PriceExtractor) Window(html string, offset int) string {
	return e.detector.Window(html, offset)
}

// ParsePrice converts a scraped numeric string into a decimal. Everything
// but digits and separators is dropped, ',' counts as '.', and only the last
// separator is kept as the decimal point. The result must lie in (0, 10000).
func ParsePrice(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',' || r == '.':
			b.WriteByte('.')
		}
	}

	cleaned := strings.TrimRight(b.String(), ".")
	if cleaned == "" {
		return decimal.Zero, false
	}
	if cleaned[0] == '.' {
		cleaned = "0" + cleaned
	}

	if last := strings.LastIndexByte(cleaned, '.'); last >= 0 {
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}

	if !price.GreaterThan(minGrossPrice) || !price.LessThan(maxGrossPrice) {
		return decimal.Zero, false
	}

	return price, true
}
