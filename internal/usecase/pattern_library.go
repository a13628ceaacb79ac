package usecase

import (
	"regexp"

	"github.com/solarprices/backend/internal/domain"
)

// Rule is a named extraction pattern with exactly one capture group holding
// a numeric price string.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

func rule(name, expr string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(expr)}
}

// PatternSet is the ordered rule list of one source. Structured rules are
// tried first by the fetcher, then Markup rules (markup-specific first,
// generic currency rules last).
type PatternSet struct {
	Structured []Rule
	Markup     []Rule
}

// Rule sets are per source and must not be shared between sources.
var (
	obramatPatterns = PatternSet{
		Structured: []Rule{
			rule("obramat.offers", `"offers"\s*:\s*\{[^}]*"price"\s*:\s*"?([\d.,]+)"?`),
		},
		Markup: []Rule{
			rule("obramat.vat_per_unit", `(?i)([\d.,]+)\s*€\s*IVA\s*/\s*Unidad`),
			rule("obramat.amount_big", `(?i)<span[^>]*class="[^"]*mc-price__amount--big[^"]*"[^>]*>\s*([\d.,]+)`),
			rule("obramat.option_card", `(?i)<span[^>]*class="[^"]*mc-option-card__label[^"]*"[^>]*>\s*([\d.,]+)`),
			rule("obramat.json_price", `"price"\s*:\s*"?([\d.,]+)"?`),
			rule("obramat.price_class", `class="price[^"]*"[^>]*>\s*([\d.,]+)`),
			rule("obramat.amount_class", `<span[^>]*class="[^"]*amount[^"]*"[^>]*>\s*([\d.,]+)`),
			rule("obramat.euro_suffix", `([\d.,]+)\s*€`),
		},
	}

	leroyPatterns = PatternSet{
		Structured: []Rule{
			rule("leroy.offers", `"offers"\s*:\s*\{[^}]*"price"\s*:\s*"?(\d+[,.]?\d*)"?`),
			rule("leroy.itemprop", `<meta[^>]*itemprop="price"[^>]*content="(\d+[,.]?\d*)"`),
		},
		Markup: []Rule{
			rule("leroy.json_price", `"price"\s*:\s*"?(\d+[,.]?\d*)"?`),
			rule("leroy.data_price", `data-price="(\d+[,.]?\d*)"`),
			rule("leroy.price_class", `class="price[^"]*"[^>]*>\s*(\d+[,.]?\d*)`),
			rule("leroy.price_span", `<span[^>]*price[^>]*>\s*(\d+[,.]?\d*)`),
			rule("leroy.euro_suffix", `(\d+[,.]\d{2})\s*€`),
		},
	}

	googlePatterns = PatternSet{
		Structured: []Rule{
			rule("google.json_price", `"price"\s*:\s*"(\d+[,.]?\d*)"`),
		},
		Markup: []Rule{
			rule("google.aria_label", `aria-label="[^"]*?(\d+[,.]?\d*)\s*€`),
			rule("google.euro_suffix", `(\d+[,.]\d{2})\s*€`),
			rule("google.euro_prefix", `€\s*(\d+[,.]?\d*)`),
			rule("google.dollar_prefix", `\$(\d+[,.]?\d*)`),
		},
	}
)

// PatternsFor returns the rule set registered for source. Fallback-only
// sources have none.
func PatternsFor(source domain.SourceID) (PatternSet, bool) {
	switch source {
	case domain.SourceObramat:
		return obramatPatterns, true
	case domain.SourceLeroy:
		return leroyPatterns, true
	case domain.SourceGoogle:
		return googlePatterns, true
	default:
		return PatternSet{}, false
	}
}
