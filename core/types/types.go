// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and
// construction-time invariant checks.
package types

import (
	"strings"
	"time"

	"github.com/abaelde/structure-application/internal/errors"
)

// ProductType represents the type of reinsurance participation
type ProductType string

const (
	ProductQuotaShare   ProductType = "quota_share"
	ProductExcessOfLoss ProductType = "excess_of_loss"
)

// String returns the string representation
func (p ProductType) String() string {
	return string(p)
}

// IsValid checks if the product type is supported
func (p ProductType) IsValid() bool {
	switch p {
	case ProductQuotaShare, ProductExcessOfLoss:
		return true
	default:
		return false
	}
}

// ClaimBasis determines which date gates a structure's temporal applicability
type ClaimBasis string

const (
	// ClaimBasisRiskAttaching keys the window test to the policy's inception
	ClaimBasisRiskAttaching ClaimBasis = "risk_attaching"

	// ClaimBasisLossOccurring keys the window test to the calculation date
	ClaimBasisLossOccurring ClaimBasis = "loss_occurring"
)

// String returns the string representation
func (c ClaimBasis) String() string {
	return string(c)
}

// IsValid checks if the claim basis is supported
func (c ClaimBasis) IsValid() bool {
	switch c {
	case ClaimBasisRiskAttaching, ClaimBasisLossOccurring:
		return true
	default:
		return false
	}
}

// Department represents an underwriting department
type Department string

const (
	DepartmentAviation Department = "aviation"
	DepartmentCasualty Department = "casualty"
	DepartmentTest     Department = "test"
)

// String returns the string representation
func (d Department) String() string {
	return string(d)
}

// IsValid checks if the department is supported
func (d Department) IsValid() bool {
	switch d {
	case DepartmentAviation, DepartmentCasualty, DepartmentTest:
		return true
	default:
		return false
	}
}

// SupportedDepartments lists the supported underwriting departments
func SupportedDepartments() []Department {
	return []Department{DepartmentAviation, DepartmentCasualty, DepartmentTest}
}

// Row is one normalized bordereau row. Every header column is present as a
// key; blank cells carry an empty string. Multi-valued cells (e.g. aviation
// currency lists) keep the raw separator and are split at lookup time.
type Row map[string]string

// MultiValueSeparator separates values inside a multi-valued bordereau cell
const MultiValueSeparator = ";"

// Lookup returns the trimmed cell value. ok is false when the column is
// absent from the row or the cell is blank.
func (r Row) Lookup(column string) (string, bool) {
	raw, present := r[column]
	if !present {
		return "", false
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether the column exists on the row, blank or not
func (r Row) Has(column string) bool {
	_, present := r[column]
	return present
}

// SplitValues splits a multi-valued cell into its trimmed values
func SplitValues(raw string) []string {
	parts := strings.Split(raw, MultiValueSeparator)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// DateLayout is the wire format for all dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.Parsing("invalid date "+value+" (expected YYYY-MM-DD)", err)
	}
	return t, nil
}

// InWindow reports whether ref falls in the half-open window [start, end)
func InWindow(ref, start, end time.Time) bool {
	return !ref.Before(start) && ref.Before(end)
}
