// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abaelde/structure-application/adapters/programio"
	"github.com/abaelde/structure-application/core/engine"
	"github.com/abaelde/structure-application/core/graph"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <program.yaml>",
	Short: "Validate a program definition",
	Long: `Load a program definition, check every construction invariant and the
predecessor graph (dangling references, cycles), and print the resolved
evaluation order.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	program, err := programio.Load(args[0])
	if err != nil {
		return err
	}
	if _, err := engine.New(program); err != nil {
		return err
	}

	g, err := graph.Build(program.Structures)
	if err != nil {
		return err
	}

	fmt.Printf("program %q is valid (%s, %d structures, %d exclusions)\n",
		program.Name, program.Department, len(program.Structures), len(program.Exclusions))
	fmt.Println("evaluation order:")
	for _, idx := range g.Order() {
		s := g.Structure(idx)
		if s.IsEntryPoint() {
			fmt.Printf("  %s (%s, entry point)\n", s.Name, s.Product)
		} else {
			fmt.Printf("  %s (%s, inures on %s)\n", s.Name, s.Product, s.Predecessor)
		}
	}
	return nil
}
