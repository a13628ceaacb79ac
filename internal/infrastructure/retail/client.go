package retail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solarprices/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Defaults used when ClientConfig leaves a field empty
const (
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "es-ES,es;q=0.9,en;q=0.8"
	DefaultReferer        = "https://www.google.com/"
	DefaultMaxBodyBytes   = 5 << 20
	DefaultTimeout        = 8 * time.Second
)

// ClientConfig holds settings for the retail page client
type ClientConfig struct {
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	Referer        string
	RequestsPerSec float64
	Burst          int
	MaxBodyBytes   int64
}

// Client fetches retailer pages with a browser-like header set. It
// implements domain.PageClient.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	acceptLanguage string
	referer        string
	maxBodyBytes   int64
	rateLimiter    *rate.Limiter
	blockDetector  *BlockDetector
}

// NewClient creates a new retail page client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if config.RequestsPerSec > 0 {
		limit = rate.Limit(config.RequestsPerSec)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:      orDefault(config.UserAgent, DefaultUserAgent),
		acceptLanguage: orDefault(config.AcceptLanguage, DefaultAcceptLanguage),
		referer:        orDefault(config.Referer, DefaultReferer),
		maxBodyBytes:   config.MaxBodyBytes,
		rateLimiter:    rate.NewLimiter(limit, burst),
		blockDetector:  NewBlockDetector(),
	}
	if c.maxBodyBytes <= 0 {
		c.maxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// newRequest builds a GET request carrying the browser-like header set
func (c *Client) newRequest(ctx context.Context, pageURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Referer", c.referer)
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	return req, nil
}

// FetchPage issues a single GET for pageURL. There are no retries: a
// non-2xx status returns ErrHTTPStatus and an expired context
// ErrFetchTimeout. A page that looks like a challenge is still returned,
// with BlockReason set, so a price on it can be used.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*domain.RawFetchResult, error) {
	start := time.Now()
	result := &domain.RawFetchResult{URL: pageURL}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		result.Duration = time.Since(start)
		// Wait fails early when the next token lands after the deadline
		if _, ok := ctx.Deadline(); ok && !errors.Is(ctx.Err(), context.Canceled) {
			return result, fmt.Errorf("%w: rate limiter: %w", domain.ErrFetchTimeout, err)
		}
		return result, c.wrapTransportError(ctx, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := c.newRequest(ctx, pageURL)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Duration = time.Since(start)
		log.Debug().Err(err).Str("url", pageURL).Msg("retail request failed")
		return result, c.wrapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		result.Duration = time.Since(start)
		return result, fmt.Errorf("%w: status %d from %s", domain.ErrHTTPStatus, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	result.Duration = time.Since(start)
	if err != nil {
		return result, c.wrapTransportError(ctx, fmt.Errorf("failed to read body: %w", err))
	}
	result.HTML = string(body)

	if blocked, reason := c.blockDetector.Detect(result.HTML); blocked {
		result.BlockReason = reason
	}

	log.Debug().
		Str("url", pageURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", result.Duration).
		Str("block_reason", result.BlockReason).
		Msg("retail page fetched")

	return result, nil
}

// wrapTransportError tags err as a timeout when the context deadline passed
// and as a network failure otherwise.
func (c *Client) wrapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
