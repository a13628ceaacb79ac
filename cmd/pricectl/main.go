// Package main provides pricectl, an operator CLI for resolving prices
// outside the HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/solarprices/backend/config"
	"github.com/solarprices/backend/internal/app"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	pretty  bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pricectl",
	Short:         "Solar components price scraper CLI",
	Long:          "pricectl resolves solar mounting hardware prices from the configured retailers, falling back to the curated price tables, and prints JSON.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		env := "production"
		if verbose {
			env = "debug"
		}
		app.SetupLogger(env, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeJSON prints v to w, indented when --pretty is set
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
