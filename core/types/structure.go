// Package types - Structure (one treaty layer)
package types

import (
	"time"

	"github.com/abaelde/structure-application/internal/errors"
)

// Structure is one treaty layer of a reinsurance program
type Structure struct {
	// Name uniquely identifies the structure within its program
	Name string `json:"structure_name"`

	// Product is the type of participation
	Product ProductType `json:"type_of_participation"`

	// Predecessor names the structure this one inures on; empty = entry point
	Predecessor string `json:"predecessor_title,omitempty"`

	// ClaimBasis selects the reference date for the validity window
	ClaimBasis ClaimBasis `json:"claim_basis"`

	// Inception opens the validity window (inclusive)
	Inception time.Time `json:"inception_date"`

	// Expiry closes the validity window (exclusive)
	Expiry time.Time `json:"expiry_date"`

	// Conditions are the matching rules, in declaration order
	Conditions []Condition `json:"conditions"`
}

// NewStructure validates the structure invariants, including the financial
// fields each condition needs for the structure's product type.
func NewStructure(s Structure) (Structure, error) {
	if s.Name == "" {
		return Structure{}, errors.Config("structure name is required")
	}
	if !s.Product.IsValid() {
		return Structure{}, errors.Configf("structure %q: unsupported type_of_participation %q", s.Name, s.Product)
	}
	if !s.ClaimBasis.IsValid() {
		return Structure{}, errors.Configf("structure %q: claim_basis is required and must be risk_attaching or loss_occurring, got %q", s.Name, s.ClaimBasis)
	}
	if s.Inception.IsZero() || s.Expiry.IsZero() {
		return Structure{}, errors.Configf("structure %q: inception_date and expiry_date are required", s.Name)
	}
	if !s.Expiry.After(s.Inception) {
		return Structure{}, errors.Configf("structure %q: expiry_date %s must be strictly after inception_date %s",
			s.Name, s.Expiry.Format(DateLayout), s.Inception.Format(DateLayout))
	}
	for i, c := range s.Conditions {
		validated, err := NewCondition(c)
		if err != nil {
			return Structure{}, errors.Configf("structure %q condition %d: %v", s.Name, i, err)
		}
		switch s.Product {
		case ProductQuotaShare:
			if validated.CessionPct == nil {
				return Structure{}, errors.Configf("structure %q condition %d: quota share condition requires cession_pct", s.Name, i)
			}
		case ProductExcessOfLoss:
			if validated.Attachment == nil || validated.Limit == nil {
				return Structure{}, errors.Configf("structure %q condition %d: excess of loss condition requires attachment and limit", s.Name, i)
			}
		}
		s.Conditions[i] = validated
	}
	return s, nil
}

// IsEntryPoint reports whether the structure has no inuring predecessor
func (s Structure) IsEntryPoint() bool {
	return s.Predecessor == ""
}

// IsApplicable tests the claim-basis-driven validity window. For
// risk_attaching the reference date is the policy's inception; for
// loss_occurring it is the calculation date. The window is [inception,
// expiry).
func (s Structure) IsApplicable(policyInception, calculationDate time.Time) bool {
	ref := calculationDate
	if s.ClaimBasis == ClaimBasisRiskAttaching {
		ref = policyInception
	}
	return InWindow(ref, s.Inception, s.Expiry)
}
