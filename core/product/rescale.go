// Package product - Net-base rescaling for layers inuring on a quota share
package product

import (
	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/types"
)

// RescalingInfo records the attachment/limit rescaling applied to an
// excess of loss condition inuring on a quota share, for audit trails.
type RescalingInfo struct {
	// RetentionFactor is 1 - predecessor cession_pct
	RetentionFactor decimal.Decimal `json:"retention_factor"`

	// OriginalAttachment is the attachment before rescaling, if present
	OriginalAttachment *decimal.Decimal `json:"original_attachment,omitempty"`

	// RescaledAttachment is the attachment after rescaling, if present
	RescaledAttachment *decimal.Decimal `json:"rescaled_attachment,omitempty"`

	// OriginalLimit is the limit before rescaling, if present
	OriginalLimit *decimal.Decimal `json:"original_limit,omitempty"`

	// RescaledLimit is the limit after rescaling, if present
	RescaledLimit *decimal.Decimal `json:"rescaled_limit,omitempty"`
}

// RescaleToNetBase returns a copy of the condition with attachment and
// limit multiplied by the predecessor's retention factor, plus the audit
// record. Layer boundaries are contractually expressed against gross
// (100%) exposure; when the layer inures on a quota share they must be
// tested against the net retained base instead. Only present fields are
// rescaled; the input condition is never mutated.
func RescaleToNetBase(cond types.Condition, retentionFactor decimal.Decimal) (types.Condition, RescalingInfo) {
	info := RescalingInfo{RetentionFactor: retentionFactor}
	rescaled := cond

	if cond.Attachment != nil {
		original := *cond.Attachment
		adjusted := original.Mul(retentionFactor)
		info.OriginalAttachment = &original
		info.RescaledAttachment = &adjusted
		rescaled.Attachment = &adjusted
	}
	if cond.Limit != nil {
		original := *cond.Limit
		adjusted := original.Mul(retentionFactor)
		info.OriginalLimit = &original
		info.RescaledLimit = &adjusted
		rescaled.Limit = &adjusted
	}
	return rescaled, info
}
