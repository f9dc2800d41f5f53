// Package policy provides the per-row view the engine evaluates: cached
// inception/expiry dates, department-aware dimension value resolution, and
// the exposure bundle for the policy.
package policy

import (
	"fmt"
	"time"

	"github.com/abaelde/structure-application/core/exposure"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Bordereau identity columns required on every row
const (
	ColInsuredName = "INSURED_NAME"
	ColInception   = "INCEPTION_DATE"
	ColExpiry      = "EXPIRY_DATE"
)

// Policy is an ephemeral view over one bordereau row for the duration of
// one evaluation. Parsed dates and the exposure bundle are cached lazily.
type Policy struct {
	row  types.Row
	dept types.Department

	inception *time.Time
	expiry    *time.Time
	bundle    *exposure.Bundle
}

// New wraps a normalized bordereau row for the given department
func New(row types.Row, dept types.Department) *Policy {
	return &Policy{row: row, dept: dept}
}

// Row returns the underlying normalized row
func (p *Policy) Row() types.Row {
	return p.row
}

// Department returns the policy's underwriting department
func (p *Policy) Department() types.Department {
	return p.dept
}

// InsuredName returns the insured's name, or an empty string if absent
func (p *Policy) InsuredName() string {
	v, _ := p.row.Lookup(ColInsuredName)
	return v
}

// Inception returns the parsed, cached inception date
func (p *Policy) Inception() (time.Time, error) {
	if p.inception != nil {
		return *p.inception, nil
	}
	raw, ok := p.row.Lookup(ColInception)
	if !ok {
		return time.Time{}, errors.Inputf("policy %q is missing %s", p.InsuredName(), ColInception)
	}
	t, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	p.inception = &t
	return t, nil
}

// Expiry returns the parsed, cached expiry date
func (p *Policy) Expiry() (time.Time, error) {
	if p.expiry != nil {
		return *p.expiry, nil
	}
	raw, ok := p.row.Lookup(ColExpiry)
	if !ok {
		return time.Time{}, errors.Inputf("policy %q is missing %s", p.InsuredName(), ColExpiry)
	}
	t, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	p.expiry = &t
	return t, nil
}

// Exposure returns the cached exposure bundle for the policy
func (p *Policy) Exposure() (exposure.Bundle, error) {
	if p.bundle != nil {
		return *p.bundle, nil
	}
	b, err := exposure.Calculate(p.dept, p.row)
	if err != nil {
		return exposure.Bundle{}, err
	}
	p.bundle = &b
	return b, nil
}

// IsActive reports whether the policy is still live on the calculation
// date. The expiry bound is exclusive: a policy expiring on the calculation
// date is already inactive. Inception is not checked here; per-structure
// claim basis handles it.
func (p *Policy) IsActive(calculationDate time.Time) (bool, string, error) {
	expiry, err := p.Expiry()
	if err != nil {
		return false, "", err
	}
	if !expiry.After(calculationDate) {
		reason := fmt.Sprintf("policy expired on %s, before calculation date %s",
			expiry.Format(types.DateLayout), calculationDate.Format(types.DateLayout))
		return false, reason, nil
	}
	return true, "", nil
}
