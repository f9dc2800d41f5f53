// Package programio - YAML load/save
package programio

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abaelde/structure-application/core/graph"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Parse decodes a YAML program definition and validates it fully,
// including predecessor graph checks.
func Parse(data []byte) (types.Program, error) {
	var doc ProgramDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Program{}, errors.Parsing("invalid program YAML", err)
	}
	program, err := doc.ToProgram()
	if err != nil {
		return types.Program{}, err
	}
	if _, err := graph.Build(program.Structures); err != nil {
		return types.Program{}, err
	}
	return program, nil
}

// Load reads and parses a program definition file
func Load(path string) (types.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Program{}, errors.Wrap(errors.TypeInput, "cannot read program file "+path, err)
	}
	return Parse(data)
}

// Save writes a program definition back to YAML
func Save(path string, program types.Program) error {
	data, err := yaml.Marshal(FromProgram(program))
	if err != nil {
		return errors.Internal("cannot marshal program", err)
	}
	return os.WriteFile(path, data, 0644)
}
