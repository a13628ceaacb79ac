package main

import (
	"fmt"

	"github.com/solarprices/backend/internal/app"
	"github.com/solarprices/backend/internal/domain"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the price of one product",
	Long:  "Scrapes one product on one source and prints the resolved price. Failures fall back to the curated table, so the command only errors on bad input.",
	RunE:  runResolve,
}

var (
	resolveSource  string
	resolveProduct string
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveSource, "source", "s", "", "Source id: obramat, leroy, google or alacen (required)")
	resolveCmd.Flags().StringVarP(&resolveProduct, "product", "p", "", "Product key, e.g. s02_3 (required)")

	if err := resolveCmd.MarkFlagRequired("source"); err != nil {
		panic(fmt.Sprintf("failed to mark source flag as required: %v", err))
	}
	if err := resolveCmd.MarkFlagRequired("product"); err != nil {
		panic(fmt.Sprintf("failed to mark product flag as required: %v", err))
	}

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	svc, err := app.NewPriceService(cfg)
	if err != nil {
		return err
	}

	source, err := parseSource(resolveSource)
	if err != nil {
		return err
	}

	resolved := svc.Resolve(cmd.Context(), source, domain.ProductKey(resolveProduct))
	return writeJSON(cmd.OutOrStdout(), resolved)
}

// parseSource rejects unknown ids instead of silently using the default
func parseSource(raw string) (domain.SourceID, error) {
	id := domain.SourceID(raw)
	if !domain.IsKnownSource(id) {
		return "", fmt.Errorf("%w: %q (known: %v)", domain.ErrUnknownSource, raw, domain.KnownSources)
	}
	return id, nil
}
