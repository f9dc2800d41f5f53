// Package types - Program (top-level aggregate)
package types

import (
	"github.com/abaelde/structure-application/internal/errors"
)

// Program is an ordered collection of structures plus exclusion rules and
// the set of dimension columns used for matching. Read-only for the
// lifetime of a batch run.
type Program struct {
	// Name identifies the program
	Name string `json:"name"`

	// Structures are the treaty layers, in declaration order. Declaration
	// order need not be topological; predecessor resolution happens in
	// core/graph.
	Structures []Structure `json:"structures"`

	// Exclusions are evaluated in order, first match wins
	Exclusions []ExclusionRule `json:"exclusions,omitempty"`

	// DimensionColumns names all matching dimensions in use
	DimensionColumns []string `json:"dimension_columns"`

	// Department selects the exposure calculator and dimension mapping
	Department Department `json:"underwriting_department"`
}

// NewProgram validates the program invariants. Predecessor references and
// acyclicity are validated separately by core/graph when the evaluation
// order is built.
func NewProgram(p Program) (Program, error) {
	if p.Name == "" {
		return Program{}, errors.Config("program name is required")
	}
	if !p.Department.IsValid() {
		return Program{}, errors.Configf("program %q: underwriting_department %q is not supported (supported: %v)",
			p.Name, p.Department, SupportedDepartments())
	}
	seen := make(map[string]struct{}, len(p.Structures))
	for i, s := range p.Structures {
		validated, err := NewStructure(s)
		if err != nil {
			return Program{}, err
		}
		if _, dup := seen[validated.Name]; dup {
			return Program{}, errors.Configf("program %q: duplicate structure name %q", p.Name, validated.Name)
		}
		seen[validated.Name] = struct{}{}
		p.Structures[i] = validated
	}
	for i, r := range p.Exclusions {
		validated, err := NewExclusionRule(r)
		if err != nil {
			return Program{}, errors.Configf("program %q exclusion %d: %v", p.Name, i, err)
		}
		p.Exclusions[i] = validated
	}
	return p, nil
}

// StructureByName returns the named structure
func (p Program) StructureByName(name string) (Structure, bool) {
	for _, s := range p.Structures {
		if s.Name == name {
			return s, true
		}
	}
	return Structure{}, false
}
