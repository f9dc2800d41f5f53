// Package cmd - apply command
package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abaelde/structure-application/adapters/bordereauio"
	"github.com/abaelde/structure-application/adapters/programio"
	"github.com/abaelde/structure-application/adapters/store"
	"github.com/abaelde/structure-application/core/engine"
	"github.com/abaelde/structure-application/core/result"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/config"
	"github.com/abaelde/structure-application/internal/logging"
)

var (
	calculationDate string
	outputFormat    string
	storePath       string
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <program.yaml> <bordereau.csv>",
	Short: "Apply a reinsurance program to a bordereau",
	Long: `Apply a program to every policy of a bordereau and print the
per-structure cession audit trail.

Examples:
  structapp apply program.yaml bordereau.csv --calculation-date 2024-06-15
  structapp apply program.yaml bordereau.csv -d 2024-06-15 --format json
  structapp apply program.yaml bordereau.csv -d 2024-06-15 --store runs.db`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&calculationDate, "calculation-date", "d", "", "calculation date (YYYY-MM-DD, default today)")
	applyCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (table, json, csv)")
	applyCmd.Flags().StringVar(&storePath, "store", "", "persist the run to a SQLite run store at this path")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	date := calculationDate
	if date == "" {
		date = cfg.Calculation.DefaultCalculationDate
	}
	if date == "" {
		date = time.Now().Format(types.DateLayout)
	}
	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	program, err := programio.Load(args[0])
	if err != nil {
		return err
	}
	batch, err := bordereauio.Load(args[1])
	if err != nil {
		return err
	}

	logging.Info("applying program")
	report, err := engine.ApplyProgramToBordereau(batch, program, uuid.NewString(), date)
	if err != nil {
		return err
	}

	if storePath != "" {
		st, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveReport(context.Background(), report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run %s persisted to %s\n", report.RunID, storePath)
	}

	return renderReport(report, format)
}

func renderReport(report *result.ProgramRunReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		w := csv.NewWriter(os.Stdout)
		if err := w.Write(result.CSVHeader()); err != nil {
			return err
		}
		for _, row := range report.Rows() {
			if err := w.Write(row.Record()); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	case "table", "":
		return renderTable(report)
	default:
		return fmt.Errorf("unsupported output format %q (table, json, csv)", format)
	}
}

func renderTable(report *result.ProgramRunReport) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "INSURED\tSTATUS\tSTRUCTURE\tTYPE\tAPPLIED\tREASON\tINPUT\tCEDED (100%%)\tCEDED (SIGNED)\tRETAINED\n")
	for _, row := range report.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%s\t%s\t%s\t%s\n",
			row.InsuredName, row.ExclusionStatus, row.StructureName, row.TypeOfParticipation,
			row.Applied, row.Reason, row.InputExposure.StringFixed(2),
			row.CededToLayer.StringFixed(2), row.CededToReinsurer.StringFixed(2),
			row.RetainedAfter.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nrun %s: %d policies, total ceded to layer %s, total ceded to reinsurers %s\n",
		report.RunID, len(report.Results),
		report.TotalCededToLayer.StringFixed(2), report.TotalCededToReinsurer.StringFixed(2))
	return nil
}
