package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/solarprices/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definitionFor(t *testing.T, id domain.SourceID, cfg SourcesConfig) SourceDefinition {
	t.Helper()
	for _, def := range DefaultSourceDefinitions(cfg) {
		if def.ID == id {
			return def
		}
	}
	t.Fatalf("no definition for %s", id)
	return SourceDefinition{}
}

func newObramatFetcher(t *testing.T, client domain.PageClient) *ScrapingFetcher {
	def := definitionFor(t, domain.SourceObramat, SourcesConfig{PreVATSources: []domain.SourceID{domain.SourceObramat}})
	return NewScrapingFetcher(def, client, testCatalog(), NewPriceExtractor(nil))
}

func TestScrapingFetcher_FetchPrice_Extracted(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantGross    string
		wantQty      int
		wantUnit     string
		wantAdjusted bool
	}{
		{
			name:      "structured pack price",
			html:      `<script type="application/ld+json">{"offers":{"price":"12,50"}}</script><p>Presor lateral pack de 5</p>`,
			wantGross: "12.5",
			wantQty:   5,
			wantUnit:  "2.5",
		},
		{
			name:         "structured price below threshold gets VAT",
			html:         `<script>{"offers":{"price":"3.00","priceCurrency":"EUR"}}</script>`,
			wantGross:    "3",
			wantQty:      1,
			wantUnit:     "3.63",
			wantAdjusted: true,
		},
		{
			name:      "page stating VAT included skips the adjustment",
			html:      `<script>{"offers":{"price":"3.00"}}</script><small>IVA incluido</small>`,
			wantGross: "3",
			wantQty:   1,
			wantUnit:  "3",
		},
		{
			name:      "markup price is never VAT adjusted",
			html:      `<div class="price-box"><span class="price">1,80</span> €</div>`,
			wantGross: "1.8",
			wantQty:   1,
			wantUnit:  "1.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewMockPageClient(tt.html)
			fetcher := newObramatFetcher(t, client)

			outcome := fetcher.FetchPrice(context.Background(), "s10")

			require.Equal(t, domain.OutcomeExtracted, outcome.Kind, "err: %v", outcome.Err)
			require.True(t, outcome.OK())
			assert.True(t, outcome.Price.GrossPrice.Equal(dec(tt.wantGross)), "gross = %s", outcome.Price.GrossPrice)
			assert.Equal(t, tt.wantQty, outcome.Price.Quantity)
			assert.True(t, outcome.Price.UnitPrice.Equal(dec(tt.wantUnit)), "unit = %s", outcome.Price.UnitPrice)
			assert.Equal(t, tt.wantAdjusted, outcome.Price.VATAdjusted)
			assert.Equal(t, []string{"https://www.obramat.es/search?q=presor+lateral+solar+S10"}, client.Requests())
		})
	}
}

func TestScrapingFetcher_FetchPrice_Failures(t *testing.T) {
	tests := []struct {
		name     string
		client   *MockPageClient
		wantKind domain.OutcomeKind
		wantErr  error
	}{
		{
			name:     "http 404",
			client:   &MockPageClient{status: 404, err: fmt.Errorf("%w: status 404", domain.ErrHTTPStatus)},
			wantKind: domain.OutcomeHTTPError,
			wantErr:  domain.ErrHTTPStatus,
		},
		{
			name:     "challenge page without a price",
			client:   &MockPageClient{status: 200, html: `<title>Just a moment...</title>`, blockBy: "title: just a moment..."},
			wantKind: domain.OutcomeBlocked,
			wantErr:  domain.ErrBlockedPage,
		},
		{
			name:     "connection refused",
			client:   &MockPageClient{err: fmt.Errorf("%w: dial tcp: connection refused", domain.ErrNetworkFailure)},
			wantKind: domain.OutcomeFetchFailed,
			wantErr:  domain.ErrNetworkFailure,
		},
		{
			name:     "client timeout",
			client:   &MockPageClient{err: fmt.Errorf("%w: deadline", domain.ErrFetchTimeout)},
			wantKind: domain.OutcomeTimeout,
			wantErr:  domain.ErrFetchTimeout,
		},
		{
			name:     "no price in page",
			client:   NewMockPageClient(`<html><body><p>Consultar disponibilidad</p></body></html>`),
			wantKind: domain.OutcomeParseFailure,
			wantErr:  domain.ErrParseFailure,
		},
		{
			name:     "only out of range prices",
			client:   NewMockPageClient(`<script>{"offers":{"price":"0.00"}}</script><span class="price">0,00</span>`),
			wantKind: domain.OutcomeParseFailure,
			wantErr:  domain.ErrParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newObramatFetcher(t, tt.client)

			outcome := fetcher.FetchPrice(context.Background(), "s10")

			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.ErrorIs(t, outcome.Err, tt.wantErr)
			assert.False(t, outcome.OK())
			assert.Nil(t, outcome.Price)
		})
	}
}

func TestScrapingFetcher_FetchPrice_CaptchaWidgetWithPrice(t *testing.T) {
	html := `<html><head><title>Presor lateral S10 | Leroy Merlin</title></head><body>` +
		`<script type="application/ld+json">{"offers":{"price":"12,50"}}</script>` +
		`<p>Presor lateral pack de 5</p>` +
		`<form class="newsletter"><div class="g-recaptcha" data-sitekey="x"></div></form>` +
		`</body></html>`
	client := &MockPageClient{html: html, status: 200, blockBy: "challenge element: div g-recaptcha"}
	fetcher := newObramatFetcher(t, client)

	outcome := fetcher.FetchPrice(context.Background(), "s10")

	require.Equal(t, domain.OutcomeExtracted, outcome.Kind, "err: %v", outcome.Err)
	assert.Equal(t, 5, outcome.Price.Quantity)
	assert.True(t, outcome.Price.UnitPrice.Equal(dec("2.5")), "unit = %s", outcome.Price.UnitPrice)
}

func TestScrapingFetcher_FetchPrice_HTTPStatusKept(t *testing.T) {
	client := &MockPageClient{status: 404, err: domain.ErrHTTPStatus}
	fetcher := newObramatFetcher(t, client)

	outcome := fetcher.FetchPrice(context.Background(), "s10")

	assert.Equal(t, 404, outcome.StatusCode)
	assert.NotEmpty(t, outcome.URL)
}

func TestScrapingFetcher_FetchPrice_ContextDeadline(t *testing.T) {
	client := &MockPageClient{block: true}
	fetcher := newObramatFetcher(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome := fetcher.FetchPrice(ctx, "s10")

	assert.Equal(t, domain.OutcomeTimeout, outcome.Kind)
	assert.True(t, errors.Is(outcome.Err, context.DeadlineExceeded))
}

func TestScrapingFetcher_FetchPrice_UnknownProduct(t *testing.T) {
	client := NewMockPageClient(`{"offers":{"price":"1.00"}}`)
	fetcher := newObramatFetcher(t, client)

	outcome := fetcher.FetchPrice(context.Background(), "does-not-exist")

	assert.Equal(t, domain.OutcomeUnknownProduct, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, domain.ErrUnknownProduct)
	assert.Empty(t, client.Requests())
}

func TestScrapingFetcher_TargetURL(t *testing.T) {
	cat := testCatalog()
	s10, _ := cat.Product("s10")
	tapa, _ := cat.Product("tapa")

	leroy := NewScrapingFetcher(definitionFor(t, domain.SourceLeroy, SourcesConfig{}), nil, cat, nil)
	google := NewScrapingFetcher(definitionFor(t, domain.SourceGoogle, SourcesConfig{}), nil, cat, nil)
	custom := NewScrapingFetcher(definitionFor(t, domain.SourceObramat, SourcesConfig{
		BaseURLs: map[domain.SourceID]string{domain.SourceObramat: "http://127.0.0.1:9000/"},
	}), nil, cat, nil)

	assert.Equal(t, "https://retailer.test/p/tapa-final", leroy.TargetURL(tapa))
	assert.Equal(t, "https://www.leroymerlin.es/search?q=presor+lateral+solar+S10", leroy.TargetURL(s10))
	assert.Equal(t, "http://127.0.0.1:9000/search?q=presor+lateral+solar+S10", custom.TargetURL(s10))

	googleURL := google.TargetURL(s10)
	assert.True(t, strings.HasPrefix(googleURL, "https://www.google.com/search?q=presor+lateral+solar+S10+precio+espa%C3%B1a"), googleURL)
	assert.True(t, strings.HasSuffix(googleURL, "&tbm=shop"), googleURL)
}

func TestClassifyFetchError(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want domain.OutcomeKind
	}{
		{name: "timeout sentinel", ctx: context.Background(), err: domain.ErrFetchTimeout, want: domain.OutcomeTimeout},
		{name: "deadline exceeded", ctx: context.Background(), err: context.DeadlineExceeded, want: domain.OutcomeTimeout},
		{name: "expired context", ctx: expired, err: errors.New("read: connection reset"), want: domain.OutcomeTimeout},
		{name: "http status", ctx: context.Background(), err: domain.ErrHTTPStatus, want: domain.OutcomeHTTPError},
		{name: "anything else", ctx: context.Background(), err: errors.New("boom"), want: domain.OutcomeFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFetchError(tt.ctx, tt.err))
		})
	}
}
