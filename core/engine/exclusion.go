// Package engine - Program-level exclusion evaluation
package engine

import (
	"time"

	"github.com/abaelde/structure-application/core/policy"
)

// isExcluded evaluates the program's exclusion rules in order, first match
// wins. A rule matches when it is in force on the calculation date and
// every dimension it names carries a scalar policy value that is in the
// rule's excluded set for that dimension (AND across dimensions, OR within
// a dimension's value list). Multi-valued policy cells never match an
// exclusion.
func (e *Engine) isExcluded(p *policy.Policy, calculationDate time.Time) (bool, string, error) {
	for _, rule := range e.program.Exclusions {
		if !rule.AppliesOn(calculationDate) {
			continue
		}
		matched := true
		for dimension, excludedValues := range rule.Values {
			value, err := p.DimensionValue(dimension)
			if err != nil {
				return false, "", err
			}
			if value == nil || !value.IsScalar() || !contains(excludedValues, value.Scalar()) {
				matched = false
				break
			}
		}
		if matched {
			return true, rule.Reason(), nil
		}
	}
	return false, "", nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
