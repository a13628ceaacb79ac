package usecase

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Default VAT policy values, observed on retailer page samples.
var (
	DefaultVATRate      = decimal.RequireFromString("1.21")
	DefaultVATThreshold = decimal.NewFromInt(5)
)

// VATPolicy is the per-source rule for prices reported without VAT.
// It is keyed off source identity, never inferred from the page.
type VATPolicy struct {
	PreVAT    bool
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// NoVAT leaves prices untouched.
var NoVAT = VATPolicy{}

// PreVATPolicy returns a policy adding VAT to prices below threshold.
func PreVATPolicy(threshold, rate decimal.Decimal) VATPolicy {
	return VATPolicy{PreVAT: true, Threshold: threshold, Rate: rate}
}

// applies reports whether gross should be multiplied by the VAT rate.
func (p VATPolicy) applies(gross decimal.Decimal) bool {
	return p.PreVAT && p.Rate.GreaterThan(decimal.NewFromInt(1)) && gross.LessThan(p.Threshold)
}

// NormalizeUnitPrice divides gross by quantity (after the VAT adjustment the
// policy asks for) and rounds half-up to 2 decimals. The second return value
// reports whether VAT was added.
func NormalizeUnitPrice(gross decimal.Decimal, quantity int, policy VATPolicy) (decimal.Decimal, bool) {
	quantity = ClampQuantity(quantity)

	adjusted := false
	if policy.applies(gross) {
		gross = gross.Mul(policy.Rate)
		adjusted = true
	}

	unit := gross
	if quantity > 1 {
		unit = gross.Div(decimal.NewFromInt(int64(quantity)))
	}

	return unit.Round(2), adjusted
}

var vatIncludedPattern = regexp.MustCompile(`(?i)\b(?:iva\s+incl(?:uido|\.)?|con\s+iva|vat\s+incl(?:uded|\.)?|incl\.?\s+(?:iva|vat))`)

// StatesVATIncluded reports whether text explicitly says the price already
// includes VAT.
func StatesVATIncluded(text string) bool {
	return vatIncludedPattern.MatchString(text)
}
