// Package product provides the pure cession formulas for the supported
// participation types, and attachment/limit rescaling for layers inuring
// on a quota share.
package product

import (
	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// QuotaShare cedes a fixed fraction of the exposure, optionally capped by
// a limit.
func QuotaShare(exposure, cessionPct decimal.Decimal, limit *decimal.Decimal) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if cessionPct.IsNegative() || cessionPct.GreaterThan(one) {
		return decimal.Zero, errors.Configf("quota share cession_pct must be in [0, 1], got %s", cessionPct)
	}
	if limit != nil && limit.IsNegative() {
		return decimal.Zero, errors.Configf("quota share limit must be non-negative, got %s", limit)
	}
	ceded := exposure.Mul(cessionPct)
	if limit != nil && ceded.GreaterThan(*limit) {
		ceded = *limit
	}
	return ceded, nil
}

// ExcessOfLoss cedes the portion of the exposure between the attachment
// point and attachment+limit. Exposure at or below the attachment cedes
// nothing.
func ExcessOfLoss(exposure, attachment, limit decimal.Decimal) (decimal.Decimal, error) {
	if attachment.IsNegative() {
		return decimal.Zero, errors.Configf("excess of loss attachment must be non-negative, got %s", attachment)
	}
	if limit.IsNegative() {
		return decimal.Zero, errors.Configf("excess of loss limit must be non-negative, got %s", limit)
	}
	if !exposure.GreaterThan(attachment) {
		return decimal.Zero, nil
	}
	ceded := exposure.Sub(attachment)
	if ceded.GreaterThan(limit) {
		ceded = limit
	}
	return ceded, nil
}

// Apply dispatches to the formula for the structure's participation type
// using the matched condition's financial terms.
func Apply(product types.ProductType, exposure decimal.Decimal, cond types.Condition) (decimal.Decimal, error) {
	switch product {
	case types.ProductQuotaShare:
		if cond.CessionPct == nil {
			return decimal.Zero, errors.Config("quota share condition is missing cession_pct")
		}
		return QuotaShare(exposure, *cond.CessionPct, cond.Limit)
	case types.ProductExcessOfLoss:
		if cond.Attachment == nil || cond.Limit == nil {
			return decimal.Zero, errors.Config("excess of loss condition is missing attachment or limit")
		}
		return ExcessOfLoss(exposure, *cond.Attachment, *cond.Limit)
	default:
		return decimal.Zero, errors.Configf("unsupported participation type %q", product)
	}
}
