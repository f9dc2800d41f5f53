// Package cmd - runs command (run store inspection)
package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abaelde/structure-application/adapters/store"
	"github.com/abaelde/structure-application/core/result"
	"github.com/abaelde/structure-application/internal/config"
)

var runsStorePath string

// runsCmd lists and exports persisted runs
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run store",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		summaries, err := st.ListRuns(context.Background())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "RUN\tPROGRAM\tDEPARTMENT\tDATE\tPOLICIES\tCEDED (100%%)\tCEDED (SIGNED)\n")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				s.RunID, s.ProgramName, s.Department, s.CalculationDate,
				s.PolicyCount, s.TotalCededToLayer, s.TotalCededToReinsurer)
		}
		return w.Flush()
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export one run's flat rows as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetRunRecords(context.Background(), args[0])
		if err != nil {
			return err
		}
		w := csv.NewWriter(os.Stdout)
		if err := w.Write(result.CSVHeader()); err != nil {
			return err
		}
		if err := w.WriteAll(records); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	},
}

func openStore() (*store.Store, error) {
	path := runsStorePath
	if path == "" {
		path = config.Get().Store.DatabasePath
	}
	return store.Open(path)
}

func init() {
	runsCmd.PersistentFlags().StringVar(&runsStorePath, "store", "", "run store path (default from config)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
}
