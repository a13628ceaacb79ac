// Package app wires configuration into the services shared by the server
// and the operator CLI.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/config"
	"github.com/solarprices/backend/internal/domain"
	"github.com/solarprices/backend/internal/infrastructure/cache"
	"github.com/solarprices/backend/internal/infrastructure/catalog"
	"github.com/solarprices/backend/internal/infrastructure/retail"
	"github.com/solarprices/backend/internal/usecase"
)

// SetupLogger configures the global zerolog logger for env. Development
// gets human-readable console output.
func SetupLogger(env string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	switch env {
	case "production":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case "development":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
}

// NewPriceService builds the catalog, page client, fetchers and the price
// service described by cfg.
func NewPriceService(cfg *config.Config) (*usecase.PriceService, error) {
	defaultSource := domain.SourceID(strings.ToLower(cfg.Pricing.DefaultSource))
	if !domain.IsKnownSource(defaultSource) {
		return nil, fmt.Errorf("%w: default source %q", domain.ErrUnknownSource, cfg.Pricing.DefaultSource)
	}

	sourcesCfg, err := SourcesConfig(cfg)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.DefaultWithURLs(DirectURLs(cfg))
	if err != nil {
		return nil, err
	}

	client := retail.NewClient(retail.ClientConfig{
		Timeout:        cfg.Scraper.Timeout,
		UserAgent:      cfg.Scraper.UserAgent,
		AcceptLanguage: cfg.Scraper.AcceptLanguage,
		Referer:        cfg.Scraper.Referer,
		RequestsPerSec: cfg.Scraper.RequestsPerSec,
		Burst:          cfg.Scraper.Burst,
		MaxBodyBytes:   cfg.Scraper.MaxBodyBytes,
	})
	extractor := usecase.NewPriceExtractor(usecase.NewQuantityDetector(cfg.Pricing.QuantityWindow))

	defs := usecase.DefaultSourceDefinitions(sourcesCfg)
	fetchers := usecase.NewFetchers(defs, client, cat, extractor)

	for _, def := range defs {
		log.Info().
			Str("source", string(def.ID)).
			Str("base_url", def.BaseURL).
			Bool("pre_vat", def.VAT.PreVAT).
			Msg("source registered")
	}

	return usecase.NewPriceService(cat, fetchers, usecase.PriceServiceConfig{
		FetchTimeout:  cfg.Scraper.Timeout,
		DefaultSource: defaultSource,
	}), nil
}

// SourcesConfig maps the per-source and pricing settings onto the fetcher
// configuration.
func SourcesConfig(cfg *config.Config) (usecase.SourcesConfig, error) {
	out := usecase.SourcesConfig{
		BaseURLs: make(map[domain.SourceID]string),
		Disabled: make(map[domain.SourceID]bool),
		VAT: usecase.VATPolicy{
			Threshold: decimal.NewFromFloat(cfg.Pricing.VATThreshold),
			Rate:      decimal.NewFromFloat(cfg.Pricing.VATRate),
		},
	}

	for name, sc := range cfg.Sources {
		id := domain.SourceID(strings.ToLower(name))
		if !domain.IsKnownSource(id) {
			return usecase.SourcesConfig{}, fmt.Errorf("%w: sources.%s", domain.ErrUnknownSource, name)
		}
		out.BaseURLs[id] = sc.BaseURL
		if !sc.Enabled {
			out.Disabled[id] = true
		}
	}

	for _, name := range cfg.Pricing.PreVATSources {
		id := domain.SourceID(strings.ToLower(strings.TrimSpace(name)))
		if !domain.IsKnownSource(id) {
			return usecase.SourcesConfig{}, fmt.Errorf("%w: pricing.pre_vat_sources %q", domain.ErrUnknownSource, name)
		}
		out.PreVATSources = append(out.PreVATSources, id)
	}

	return out, nil
}

// DirectURLs collects the configured product page URLs per source. Source
// names are expected to have passed SourcesConfig.
func DirectURLs(cfg *config.Config) map[domain.SourceID]map[domain.ProductKey]string {
	out := make(map[domain.SourceID]map[domain.ProductKey]string)
	for name, sc := range cfg.Sources {
		if len(sc.URLs) == 0 {
			continue
		}
		byProduct := make(map[domain.ProductKey]string, len(sc.URLs))
		for key, pageURL := range sc.URLs {
			byProduct[domain.ProductKey(strings.ToLower(key))] = strings.TrimSpace(pageURL)
		}
		out[domain.SourceID(strings.ToLower(name))] = byProduct
	}
	return out
}

// NewPreferenceService builds the in-memory language preference store. The
// returned store must be closed on shutdown.
func NewPreferenceService(cfg *config.Config) (*usecase.PreferenceService, *cache.MemoryStore) {
	store := cache.NewMemoryStore(cache.DefaultCleanupInterval)
	svc := usecase.NewPreferenceService(store, usecase.PreferenceServiceConfig{
		TTL:             cfg.Preferences.TTL,
		DefaultLanguage: cfg.Preferences.DefaultLanguage,
	})
	return svc, store
}
