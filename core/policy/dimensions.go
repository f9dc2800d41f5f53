// Package policy - Dimension value resolution
package policy

import (
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// dimensionMapping maps a logical dimension name to the physical bordereau
// columns that carry it, per underwriting department. Candidates are tried
// in order; the first column present on the row (even blank) wins. This
// table is static, versioned configuration: changing it is a deployment
// concern, not a runtime one.
var dimensionMapping = map[types.Department]map[string][]string{
	types.DepartmentAviation: {
		"CURRENCY": {"HULL_CURRENCY"},
	},
	types.DepartmentCasualty: {
		"CURRENCY": {"ORIGINAL_CURRENCY", "CURRENCY"},
	},
	types.DepartmentTest: {},
}

// Value is a resolved dimension value. Values carries one entry for scalar
// cells and several for multi-valued cells (e.g. aviation currency lists).
type Value struct {
	Values []string
	List   bool
}

// IsScalar reports whether the value is a single string
func (v Value) IsScalar() bool {
	return !v.List && len(v.Values) == 1
}

// Scalar returns the single value; only meaningful when IsScalar is true
func (v Value) Scalar() string {
	if len(v.Values) == 0 {
		return ""
	}
	return v.Values[0]
}

// DimensionValue resolves a dimension name against the policy row. The
// dimension name itself is tried as a physical column first; otherwise the
// static per-department mapping is consulted. A recognized dimension with
// no data resolves to (nil, nil), which conditions treat as unconstrained
// input. An unrecognized dimension name is a configuration error and is
// never silently defaulted.
func (p *Policy) DimensionValue(dimension string) (*Value, error) {
	if p.row.Has(dimension) {
		return cellValue(p.row, dimension), nil
	}

	mapped, ok := dimensionMapping[p.dept][dimension]
	if !ok {
		return nil, errors.UnknownDimension(dimension, p.dept.String())
	}
	for _, column := range mapped {
		if p.row.Has(column) {
			return cellValue(p.row, column), nil
		}
	}
	// Recognized dimension, no data: unconstrained.
	return nil, nil
}

func cellValue(row types.Row, column string) *Value {
	raw, ok := row.Lookup(column)
	if !ok {
		return nil
	}
	values := types.SplitValues(raw)
	if len(values) == 0 {
		return nil
	}
	return &Value{Values: values, List: len(values) > 1}
}
