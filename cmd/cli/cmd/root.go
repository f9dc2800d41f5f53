// Package cmd provides the CLI commands for structapp.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abaelde/structure-application/internal/config"
	"github.com/abaelde/structure-application/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "structapp",
	Short: "Apply reinsurance programs to bordereaux",
	Long: `structapp computes how each policy's exposure is ceded across a chain
of reinsurance structures (quota share and excess of loss treaties), with
inuring dependencies, condition matching and full per-structure audit detail.

Examples:
  structapp apply program.yaml bordereau.csv --calculation-date 2024-06-15
  structapp apply program.yaml bordereau.csv -d 2024-06-15 --format csv
  structapp validate program.yaml`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.structure-application.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("structapp version 0.1.0")
	},
}
