// Package graph builds the explicit predecessor graph over a program's
// structures. Edges are resolved from predecessor names to indexes once
// per program, dangling references and cycles are rejected at build time,
// and a topological evaluation order is computed so the engine never
// recurses at evaluation time.
package graph

import (
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// NoPredecessor marks an entry-point structure
const NoPredecessor = -1

// Graph is the resolved predecessor graph of one program. Immutable after
// Build; shared read-only across all policy evaluations of a batch.
type Graph struct {
	structures []types.Structure
	index      map[string]int

	// predecessor[i] is the index of structure i's predecessor, or
	// NoPredecessor for entry points
	predecessor []int

	// order is a topological evaluation order: every structure appears
	// after its predecessor, and otherwise in declaration order
	order []int
}

// Build resolves predecessor references and computes the evaluation order.
// Duplicate names, dangling predecessor references, self-references and
// cycles are configuration errors.
func Build(structures []types.Structure) (*Graph, error) {
	g := &Graph{
		structures:  structures,
		index:       make(map[string]int, len(structures)),
		predecessor: make([]int, len(structures)),
	}

	for i, s := range structures {
		if _, dup := g.index[s.Name]; dup {
			return nil, errors.Configf("duplicate structure name %q", s.Name)
		}
		g.index[s.Name] = i
	}

	for i, s := range structures {
		if s.IsEntryPoint() {
			g.predecessor[i] = NoPredecessor
			continue
		}
		pred, ok := g.index[s.Predecessor]
		if !ok {
			return nil, errors.Configf("structure %q inures on unknown predecessor %q", s.Name, s.Predecessor)
		}
		if pred == i {
			return nil, errors.Configf("structure %q names itself as predecessor", s.Name)
		}
		g.predecessor[i] = pred
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

const (
	unvisited = iota
	visiting
	visited
)

// topologicalOrder walks structures in declaration order, emitting each
// chain predecessor-first. Since each node has at most one predecessor,
// a cycle is a chain that reaches a node already on the current path.
func (g *Graph) topologicalOrder() ([]int, error) {
	state := make([]int, len(g.structures))
	order := make([]int, 0, len(g.structures))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case visited:
			return nil
		case visiting:
			return errors.Configf("predecessor cycle involving structure %q", g.structures[i].Name)
		}
		state[i] = visiting
		if p := g.predecessor[i]; p != NoPredecessor {
			if err := visit(p); err != nil {
				return err
			}
		}
		state[i] = visited
		order = append(order, i)
		return nil
	}

	for i := range g.structures {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Order returns the topological evaluation order as structure indexes
func (g *Graph) Order() []int {
	return g.order
}

// Structure returns the structure at the given index
func (g *Graph) Structure(i int) types.Structure {
	return g.structures[i]
}

// Predecessor returns the predecessor index of structure i, or
// NoPredecessor for entry points.
func (g *Graph) Predecessor(i int) int {
	return g.predecessor[i]
}

// Len returns the number of structures
func (g *Graph) Len() int {
	return len(g.structures)
}
