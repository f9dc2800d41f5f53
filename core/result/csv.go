// Package result - CSV projection of the flat row contract
package result

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CSVHeader returns the column names of the flat row contract, in the
// order Record emits them.
func CSVHeader() []string {
	return []string{
		"program_name",
		"insured_name",
		"underwriting_department",
		"calculation_date",
		"exclusion_status",
		"status_reason",
		"exposure",
		"effective_exposure",
		"structure_name",
		"type_of_participation",
		"predecessor_title",
		"applied",
		"reason",
		"scope",
		"input_exposure",
		"cession_pct",
		"attachment",
		"limit",
		"signed_share",
		"retention_factor",
		"original_attachment",
		"original_limit",
		"ceded_to_layer_100pct",
		"ceded_to_reinsurer",
		"retained_after",
		"total_ceded_to_layer_100pct",
		"total_ceded_to_reinsurer",
		"retained_by_cedant",
	}
}

// Record returns the row as CSV fields, aligned with CSVHeader
func (r Row) Record() []string {
	return []string{
		r.ProgramName,
		r.InsuredName,
		r.Department,
		r.CalculationDate,
		r.ExclusionStatus,
		r.StatusReason,
		r.Exposure.String(),
		r.EffectiveExposure.String(),
		r.StructureName,
		r.TypeOfParticipation,
		r.PredecessorTitle,
		strconv.FormatBool(r.Applied),
		r.Reason,
		r.Scope,
		r.InputExposure.String(),
		optional(r.CessionPct),
		optional(r.Attachment),
		optional(r.Limit),
		optional(r.SignedShare),
		optional(r.RetentionFactor),
		optional(r.OriginalAttachment),
		optional(r.OriginalLimit),
		r.CededToLayer.String(),
		r.CededToReinsurer.String(),
		r.RetainedAfter.String(),
		r.TotalCededToLayer.String(),
		r.TotalCededToReinsurer.String(),
		r.RetainedByCedant.String(),
	}
}

func optional(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}
