package main

import (
	"github.com/shopspring/decimal"
	"github.com/solarprices/backend/internal/app"
	"github.com/solarprices/backend/internal/domain"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the fallback price table of a source",
	RunE:  runTable,
}

var tableSource string

func init() {
	tableCmd.Flags().StringVarP(&tableSource, "source", "s", "obramat", "Source id")

	rootCmd.AddCommand(tableCmd)
}

type tableOutput struct {
	Source domain.SourceID                       `json:"source"`
	Prices map[domain.ProductKey]decimal.Decimal `json:"prices"`
}

func runTable(cmd *cobra.Command, _ []string) error {
	svc, err := app.NewPriceService(cfg)
	if err != nil {
		return err
	}

	source, err := parseSource(tableSource)
	if err != nil {
		return err
	}

	used, prices := svc.Table(source)
	return writeJSON(cmd.OutOrStdout(), tableOutput{Source: used, Prices: prices})
}
