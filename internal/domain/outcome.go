package domain

import "time"

// OutcomeKind is the terminal state of one fetch attempt.
type OutcomeKind int

const (
	OutcomeExtracted OutcomeKind = iota
	OutcomeFetchFailed
	OutcomeTimeout
	OutcomeHTTPError
	OutcomeBlocked
	OutcomeParseFailure
	OutcomeUnknownProduct
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExtracted:
		return "extracted"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeParseFailure:
		return "parse_failure"
	case OutcomeUnknownProduct:
		return "unknown_product"
	default:
		return "unknown"
	}
}

// FetchOutcome is the result of PriceFetcher.FetchPrice. Price is set only
// for OutcomeExtracted; Err is set for every other kind.
type FetchOutcome struct {
	Kind       OutcomeKind
	Price      *ExtractedPrice
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Extracted builds a successful outcome.
func Extracted(price *ExtractedPrice, raw *RawFetchResult) FetchOutcome {
	out := FetchOutcome{Kind: OutcomeExtracted, Price: price}
	if raw != nil {
		out.URL = raw.URL
		out.StatusCode = raw.StatusCode
		out.Duration = raw.Duration
	}
	return out
}

// Failed builds a failed outcome of the given kind.
func Failed(kind OutcomeKind, err error, raw *RawFetchResult) FetchOutcome {
	out := FetchOutcome{Kind: kind, Err: err}
	if raw != nil {
		out.URL = raw.URL
		out.StatusCode = raw.StatusCode
		out.Duration = raw.Duration
	}
	return out
}

// OK reports whether the outcome carries a usable price.
func (o FetchOutcome) OK() bool {
	return o.Kind == OutcomeExtracted && o.Price != nil && o.Price.UnitPrice.IsPositive()
}
