// Package exposure - Per-department exposure calculators
package exposure

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Bordereau exposure columns per underwriting department
const (
	ColHullLimit      = "HULL_LIMIT"
	ColHullShare      = "HULL_SHARE"
	ColLiabilityLimit = "LIABILITY_LIMIT"
	ColLiabilityShare = "LIABILITY_SHARE"
	ColCasualtyLimit  = "LIMIT"
	ColCedentShare    = "CEDENT_SHARE"
	ColTestExposure   = "exposure"
)

// RequiredColumns lists the bordereau exposure columns the department's
// calculator reads. Column presence is validated batch-wide before any row
// is processed; value presence is validated per row here.
func RequiredColumns(dept types.Department) ([]string, error) {
	switch dept {
	case types.DepartmentAviation:
		return []string{ColHullLimit, ColHullShare, ColLiabilityLimit, ColLiabilityShare}, nil
	case types.DepartmentCasualty:
		return []string{ColCasualtyLimit, ColCedentShare}, nil
	case types.DepartmentTest:
		return []string{ColTestExposure}, nil
	default:
		return nil, errors.Exposuref("unknown underwriting department %q (supported: %v)", dept, types.SupportedDepartments())
	}
}

// Calculate computes the policy's exposure bundle for the department.
// Aviation returns a hull/liability component breakdown; casualty and test
// return a component-less bundle.
func Calculate(dept types.Department, row types.Row) (Bundle, error) {
	switch dept {
	case types.DepartmentAviation:
		return calculateAviation(row)
	case types.DepartmentCasualty:
		return calculateCasualty(row)
	case types.DepartmentTest:
		return calculateTest(row)
	default:
		return Bundle{}, errors.Exposuref("unknown underwriting department %q (supported: %v)", dept, types.SupportedDepartments())
	}
}

// calculateAviation sums limit x share per present component. Hull and
// liability are independently optional, but a limit without its paired
// share is an error. Both absent yields a zero bundle.
func calculateAviation(row types.Row) (Bundle, error) {
	components := make(map[string]decimal.Decimal)

	hull, present, err := component(row, ColHullLimit, ColHullShare)
	if err != nil {
		return Bundle{}, err
	}
	if present {
		components[types.ComponentHull] = hull
	}

	liability, present, err := component(row, ColLiabilityLimit, ColLiabilityShare)
	if err != nil {
		return Bundle{}, err
	}
	if present {
		components[types.ComponentLiability] = liability
	}

	return NewBundle(components), nil
}

func component(row types.Row, limitCol, shareCol string) (decimal.Decimal, bool, error) {
	rawLimit, hasLimit := row.Lookup(limitCol)
	if !hasLimit {
		return decimal.Zero, false, nil
	}
	rawShare, hasShare := row.Lookup(shareCol)
	if !hasShare {
		return decimal.Zero, false, errors.Exposuref("%s is present but its paired %s is missing", limitCol, shareCol)
	}
	limit, err := parseAmount(limitCol, rawLimit)
	if err != nil {
		return decimal.Zero, false, err
	}
	share, err := parseAmount(shareCol, rawShare)
	if err != nil {
		return decimal.Zero, false, err
	}
	return limit.Mul(share), true, nil
}

func calculateCasualty(row types.Row) (Bundle, error) {
	rawLimit, ok := row.Lookup(ColCasualtyLimit)
	if !ok {
		return Bundle{}, errors.Exposuref("casualty exposure requires %s", ColCasualtyLimit)
	}
	rawShare, ok := row.Lookup(ColCedentShare)
	if !ok {
		return Bundle{}, errors.Exposuref("casualty exposure requires %s", ColCedentShare)
	}
	limit, err := parseAmount(ColCasualtyLimit, rawLimit)
	if err != nil {
		return Bundle{}, err
	}
	share, err := parseAmount(ColCedentShare, rawShare)
	if err != nil {
		return Bundle{}, err
	}
	return Scalar(limit.Mul(share)), nil
}

func calculateTest(row types.Row) (Bundle, error) {
	raw, ok := row.Lookup(ColTestExposure)
	if !ok {
		return Bundle{}, errors.Exposuref("test exposure requires a scalar %s field", ColTestExposure)
	}
	v, err := parseAmount(ColTestExposure, raw)
	if err != nil {
		return Bundle{}, err
	}
	return Scalar(v), nil
}

// parseAmount coerces a string-typed numeric cell to a decimal
func parseAmount(column, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errors.Exposuref("field %s has non-numeric value %q", column, raw)
	}
	return v, nil
}
