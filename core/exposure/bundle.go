// Package exposure computes a policy's total exposure and its component
// breakdown per underwriting department.
package exposure

import (
	"github.com/shopspring/decimal"
)

// Bundle is the result of exposure computation: a total plus an optional
// component breakdown (hull/liability for aviation; empty otherwise).
type Bundle struct {
	// Total is the summed exposure
	Total decimal.Decimal `json:"total"`

	// Components maps component name to its exposure share of the total
	Components map[string]decimal.Decimal `json:"components,omitempty"`
}

// NewBundle builds a bundle from its components
func NewBundle(components map[string]decimal.Decimal) Bundle {
	total := decimal.Zero
	for _, v := range components {
		total = total.Add(v)
	}
	return Bundle{Total: total, Components: components}
}

// Scalar builds a component-less bundle
func Scalar(total decimal.Decimal) Bundle {
	return Bundle{Total: total}
}

// Select returns the exposure restricted to the named components. A nil or
// empty include set, or a bundle without components, selects the total.
func (b Bundle) Select(include []string) decimal.Decimal {
	if len(include) == 0 || len(b.Components) == 0 {
		return b.Total
	}
	sum := decimal.Zero
	for _, name := range include {
		if v, ok := b.Components[name]; ok {
			sum = sum.Add(v)
		}
	}
	return sum
}

// FractionTo rescales the bundle proportionally to a new total, preserving
// component proportions. Used when an upstream structure has partially
// ceded the exposure. A zero-total bundle rescales to a zero bundle.
func (b Bundle) FractionTo(newTotal decimal.Decimal) Bundle {
	if len(b.Components) == 0 {
		return Scalar(newTotal)
	}
	if b.Total.IsZero() {
		zeroed := make(map[string]decimal.Decimal, len(b.Components))
		for name := range b.Components {
			zeroed[name] = decimal.Zero
		}
		return Bundle{Total: newTotal, Components: zeroed}
	}
	factor := newTotal.Div(b.Total)
	scaled := make(map[string]decimal.Decimal, len(b.Components))
	for name, v := range b.Components {
		scaled[name] = v.Mul(factor)
	}
	return Bundle{Total: newTotal, Components: scaled}
}
