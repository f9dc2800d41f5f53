// Package match finds the single best-matching condition for a policy
// using specificity-based tie-breaking.
package match

import (
	"github.com/abaelde/structure-application/core/policy"
	"github.com/abaelde/structure-application/core/types"
)

// DimensionCheck records the outcome of testing one dimension of one
// condition against a policy. Used for audit trails.
type DimensionCheck struct {
	// Dimension is the dimension name tested
	Dimension string `json:"dimension"`

	// Constrained is false when the condition does not restrict the dimension
	Constrained bool `json:"constrained"`

	// PolicyValues are the policy's resolved values, nil when no data
	PolicyValues []string `json:"policy_values,omitempty"`

	// AllowedValues are the condition's acceptable values
	AllowedValues []string `json:"allowed_values,omitempty"`

	// Matched is true when the check did not disqualify the condition
	Matched bool `json:"matched"`
}

// CandidateReport is the per-condition diagnostic of a match run
type CandidateReport struct {
	// Index is the condition's position in the structure's condition list
	Index int `json:"index"`

	// Qualified is true when no dimension disqualified the condition
	Qualified bool `json:"qualified"`

	// Score is the specificity score of a qualified condition
	Score float64 `json:"score"`

	// Checks holds the per-dimension outcomes
	Checks []DimensionCheck `json:"checks"`
}

// Best returns the best-matching condition and its index, or (nil, -1) when
// no condition qualifies. A condition qualifies when, for every dimension
// it constrains, the policy's value is in the condition's value list
// (case-trimmed exact match; any-of for multi-valued policy cells). Among
// qualifying conditions the highest specificity score wins; each
// constrained dimension contributes 1/len(values). Ties break to the first
// condition encountered.
func Best(p *policy.Policy, conditions []types.Condition, dimensionColumns []string) (*types.Condition, int, error) {
	reports, err := Explain(p, conditions, dimensionColumns)
	if err != nil {
		return nil, -1, err
	}

	bestIdx := -1
	bestScore := 0.0
	for _, report := range reports {
		if !report.Qualified {
			continue
		}
		if bestIdx == -1 || report.Score > bestScore {
			bestIdx = report.Index
			bestScore = report.Score
		}
	}
	if bestIdx == -1 {
		return nil, -1, nil
	}
	matched := conditions[bestIdx]
	return &matched, bestIdx, nil
}

// Explain runs the full match and returns per-condition, per-dimension
// diagnostics in condition order.
func Explain(p *policy.Policy, conditions []types.Condition, dimensionColumns []string) ([]CandidateReport, error) {
	reports := make([]CandidateReport, 0, len(conditions))
	for i, cond := range conditions {
		report := CandidateReport{Index: i, Qualified: true}
		for _, dim := range dimensionColumns {
			check, err := checkDimension(p, cond, dim)
			if err != nil {
				return nil, err
			}
			report.Checks = append(report.Checks, check)
			if !check.Matched {
				report.Qualified = false
			}
			if check.Constrained && check.Matched {
				report.Score += 1.0 / float64(len(check.AllowedValues))
			}
		}
		if !report.Qualified {
			report.Score = 0
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func checkDimension(p *policy.Policy, cond types.Condition, dimension string) (DimensionCheck, error) {
	check := DimensionCheck{Dimension: dimension}

	allowed := cond.Dimensions[dimension]
	if len(allowed) == 0 {
		// Unconstrained dimensions match trivially.
		check.Matched = true
		return check, nil
	}
	check.Constrained = true
	check.AllowedValues = allowed

	value, err := p.DimensionValue(dimension)
	if err != nil {
		return DimensionCheck{}, err
	}
	if value == nil {
		// The condition requires a value the policy does not carry.
		return check, nil
	}
	check.PolicyValues = value.Values

	// Multi-valued policy cells match if any value is acceptable.
	for _, pv := range value.Values {
		for _, av := range allowed {
			if pv == av {
				check.Matched = true
				return check, nil
			}
		}
	}
	return check, nil
}
