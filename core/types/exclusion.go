// Package types - Program-level exclusion rules
package types

import (
	"time"

	"github.com/abaelde/structure-application/internal/errors"
)

// ExclusionRule fully zeroes a policy's exposure when every dimension it
// names carries an excluded value (AND across dimensions, OR within a
// dimension's value list).
type ExclusionRule struct {
	// Name identifies the rule in exclusion reasons; optional
	Name string `json:"name,omitempty"`

	// Values maps a dimension name to its excluded values
	Values map[string][]string `json:"values_by_dimension"`

	// Effective opens the optional applicability window (inclusive)
	Effective *time.Time `json:"effective_date,omitempty"`

	// Expiry closes the optional applicability window (exclusive)
	Expiry *time.Time `json:"expiry_date,omitempty"`
}

// DefaultExclusionReason is used when a matching rule carries no name
const DefaultExclusionReason = "program exclusion"

// NewExclusionRule validates the rule invariants
func NewExclusionRule(r ExclusionRule) (ExclusionRule, error) {
	if len(r.Values) == 0 {
		return ExclusionRule{}, errors.Config("exclusion rule must name at least one dimension")
	}
	for dim, values := range r.Values {
		if len(values) == 0 {
			return ExclusionRule{}, errors.Configf("exclusion rule dimension %q has no excluded values", dim)
		}
	}
	if r.Effective != nil && r.Expiry != nil && !r.Expiry.After(*r.Effective) {
		return ExclusionRule{}, errors.Config("exclusion rule expiry_date must be strictly after effective_date")
	}
	return r, nil
}

// AppliesOn reports whether the rule is in force on the calculation date.
// Rules without a window always apply.
func (r ExclusionRule) AppliesOn(calculationDate time.Time) bool {
	if r.Effective != nil && calculationDate.Before(*r.Effective) {
		return false
	}
	if r.Expiry != nil && !calculationDate.Before(*r.Expiry) {
		return false
	}
	return true
}

// Reason returns the rule's exclusion reason string
func (r ExclusionRule) Reason() string {
	if r.Name != "" {
		return r.Name
	}
	return DefaultExclusionReason
}
