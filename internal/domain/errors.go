package domain

import "errors"

var (
	// ErrNetworkFailure is returned when a retailer cannot be reached (DNS, connection, reset)
	ErrNetworkFailure = errors.New("retailer request failed")

	// ErrFetchTimeout is returned when a fetch exceeds its time budget
	ErrFetchTimeout = errors.New("retailer request timed out")

	// ErrHTTPStatus is returned when a retailer answers with a non-2xx status
	ErrHTTPStatus = errors.New("retailer returned non-success status")

	// ErrBlockedPage is returned when a bot wall or CAPTCHA page carried no price
	ErrBlockedPage = errors.New("retailer served a challenge page")

	// ErrParseFailure is returned when no extraction rule produced a valid price
	ErrParseFailure = errors.New("no valid price found in page")

	// ErrUnknownProduct is returned when a product key is not in the catalog
	ErrUnknownProduct = errors.New("unknown product")

	// ErrUnknownSource is returned when a source id is not supported
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidLanguage is returned when a UI language is not supported
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrInvalidClient is returned when a preference request has no usable client id
	ErrInvalidClient = errors.New("invalid client id")

	// ErrCacheMiss is returned when data is not found in the key-value store
	ErrCacheMiss = errors.New("cache miss")
)
