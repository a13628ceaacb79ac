package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solarprices/backend/config"
	"github.com/solarprices/backend/internal/app"
	httpDelivery "github.com/solarprices/backend/internal/delivery/http"
)

const version = "1.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	app.SetupLogger(cfg.Server.Environment, os.Stdout)

	log.Info().
		Str("version", version).
		Str("env", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Strs("allowed_origins", cfg.Server.AllowedOrigins).
		Msg("starting solar price backend")

	// Initialize usecase layer
	priceService, err := app.NewPriceService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build price service")
	}

	preferenceService, preferenceStore := app.NewPreferenceService(cfg)
	defer preferenceStore.Close()

	log.Info().
		Dur("fetch_timeout", cfg.Scraper.Timeout).
		Float64("requests_per_second", cfg.Scraper.RequestsPerSec).
		Str("default_source", cfg.Pricing.DefaultSource).
		Float64("vat_rate", cfg.Pricing.VATRate).
		Float64("vat_threshold", cfg.Pricing.VATThreshold).
		Int("quantity_window", cfg.Pricing.QuantityWindow).
		Msg("pricing configured")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(priceService, preferenceService)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
