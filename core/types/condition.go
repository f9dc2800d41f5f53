// Package types - Condition and dimensional filters
package types

import (
	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/internal/errors"
)

// Condition is one matching and financial rule row inside a structure.
// Immutable after construction; rescaled views are produced as copies by
// core/product, never by mutating a shared instance.
type Condition struct {
	// CessionPct is the ceded fraction for quota share conditions
	CessionPct *decimal.Decimal `json:"cession_pct,omitempty"`

	// Attachment is the layer attachment point for excess of loss conditions
	Attachment *decimal.Decimal `json:"attachment,omitempty"`

	// Limit caps the cession (quota share) or sizes the layer (excess of loss)
	Limit *decimal.Decimal `json:"limit,omitempty"`

	// SignedShare is the reinsurer's participation in the layer's 100% cession
	SignedShare decimal.Decimal `json:"signed_share"`

	// IncludesHull restricts the condition to the hull exposure component
	IncludesHull *bool `json:"includes_hull,omitempty"`

	// IncludesLiability restricts the condition to the liability component
	IncludesLiability *bool `json:"includes_liability,omitempty"`

	// Dimensions maps a dimension name to its ordered list of acceptable
	// values. A missing or empty list means the dimension is unconstrained.
	Dimensions map[string][]string `json:"dimensions,omitempty"`
}

// NewCondition validates the condition invariants
func NewCondition(c Condition) (Condition, error) {
	one := decimal.NewFromInt(1)
	if c.SignedShare.IsNegative() || c.SignedShare.GreaterThan(one) {
		return Condition{}, errors.Configf("condition signed_share must be in [0, 1], got %s", c.SignedShare)
	}
	if c.IncludesHull != nil || c.IncludesLiability != nil {
		hull := c.IncludesHull != nil && *c.IncludesHull
		liability := c.IncludesLiability != nil && *c.IncludesLiability
		if !hull && !liability {
			return Condition{}, errors.Config("condition scope flags exclude both hull and liability; at least one must be included")
		}
	}
	return c, nil
}

// Constrains reports whether the condition restricts the given dimension
func (c Condition) Constrains(dimension string) bool {
	return len(c.Dimensions[dimension]) > 0
}

// ScopeComponents returns the exposure component names this condition is
// restricted to, or nil for full scope.
func (c Condition) ScopeComponents() []string {
	if c.IncludesHull == nil && c.IncludesLiability == nil {
		return nil
	}
	var components []string
	if c.IncludesHull != nil && *c.IncludesHull {
		components = append(components, ComponentHull)
	}
	if c.IncludesLiability != nil && *c.IncludesLiability {
		components = append(components, ComponentLiability)
	}
	return components
}

// Exposure component names for aviation business
const (
	ComponentHull      = "hull"
	ComponentLiability = "liability"
)
