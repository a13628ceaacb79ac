package main

import (
	"fmt"

	"github.com/solarprices/backend/internal/app"
	"github.com/solarprices/backend/internal/domain"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Resolve every catalog product on a source",
	Long:  "Resolves every catalog product on one source with bounded concurrency and prints the results in catalog order.",
	RunE:  runSweep,
}

var (
	sweepSource      string
	sweepConcurrency int
)

func init() {
	sweepCmd.Flags().StringVarP(&sweepSource, "source", "s", "", "Source id (required)")
	sweepCmd.Flags().IntVarP(&sweepConcurrency, "concurrency", "c", 0, "Parallel resolutions (default: scraper.sweep_concurrency)")

	if err := sweepCmd.MarkFlagRequired("source"); err != nil {
		panic(fmt.Sprintf("failed to mark source flag as required: %v", err))
	}

	rootCmd.AddCommand(sweepCmd)
}

type sweepOutput struct {
	Source  domain.SourceID        `json:"source"`
	Scraped int                    `json:"scraped"`
	Results []domain.ResolvedPrice `json:"results"`
}

func runSweep(cmd *cobra.Command, _ []string) error {
	svc, err := app.NewPriceService(cfg)
	if err != nil {
		return err
	}

	source, err := parseSource(sweepSource)
	if err != nil {
		return err
	}

	concurrency := sweepConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Scraper.SweepConcurrency
	}

	results, err := svc.Sweep(cmd.Context(), source, concurrency)
	if err != nil {
		return err
	}

	out := sweepOutput{Source: source, Results: results}
	for _, r := range results {
		if r.Method == domain.MethodScraped {
			out.Scraped++
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
