// Package result - Flat row view for exporters
package result

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/types"
)

// Row is the flat, JSON-serializable view of one structure run within one
// policy's result. This is the stable contract consumed by CSV, report and
// store exporters.
type Row struct {
	ProgramName           string           `json:"program_name"`
	InsuredName           string           `json:"insured_name"`
	Department            string           `json:"underwriting_department"`
	CalculationDate       string           `json:"calculation_date"`
	ExclusionStatus       string           `json:"exclusion_status"`
	StatusReason          string           `json:"status_reason,omitempty"`
	Exposure              decimal.Decimal  `json:"exposure"`
	EffectiveExposure     decimal.Decimal  `json:"effective_exposure"`
	StructureName         string           `json:"structure_name,omitempty"`
	TypeOfParticipation   string           `json:"type_of_participation,omitempty"`
	PredecessorTitle      string           `json:"predecessor_title,omitempty"`
	Applied               bool             `json:"applied"`
	Reason                string           `json:"reason,omitempty"`
	Scope                 string           `json:"scope,omitempty"`
	InputExposure         decimal.Decimal  `json:"input_exposure"`
	CessionPct            *decimal.Decimal `json:"cession_pct,omitempty"`
	Attachment            *decimal.Decimal `json:"attachment,omitempty"`
	Limit                 *decimal.Decimal `json:"limit,omitempty"`
	SignedShare           *decimal.Decimal `json:"signed_share,omitempty"`
	RetentionFactor       *decimal.Decimal `json:"retention_factor,omitempty"`
	OriginalAttachment    *decimal.Decimal `json:"original_attachment,omitempty"`
	OriginalLimit         *decimal.Decimal `json:"original_limit,omitempty"`
	CededToLayer          decimal.Decimal  `json:"ceded_to_layer_100pct"`
	CededToReinsurer      decimal.Decimal  `json:"ceded_to_reinsurer"`
	RetainedAfter         decimal.Decimal  `json:"retained_after"`
	TotalCededToLayer     decimal.Decimal  `json:"total_ceded_to_layer_100pct"`
	TotalCededToReinsurer decimal.Decimal  `json:"total_ceded_to_reinsurer"`
	RetainedByCedant      decimal.Decimal  `json:"retained_by_cedant"`
}

// Rows flattens the result to one row per structure run. Policies without
// structure runs (inactive, excluded) yield a single policy-level row.
func (r *ProgramRunResult) Rows() []Row {
	base := Row{
		ProgramName:           r.ProgramName,
		InsuredName:           r.InsuredName,
		Department:            r.Department.String(),
		CalculationDate:       r.CalculationDate.Format(types.DateLayout),
		ExclusionStatus:       string(r.Status),
		StatusReason:          r.StatusReason,
		Exposure:              r.Exposure,
		EffectiveExposure:     r.EffectiveExposure,
		TotalCededToLayer:     r.TotalCededToLayer,
		TotalCededToReinsurer: r.TotalCededToReinsurer,
		RetainedByCedant:      r.RetainedByCedant,
	}
	if len(r.Structures) == 0 {
		return []Row{base}
	}

	rows := make([]Row, 0, len(r.Structures))
	for _, run := range r.Structures {
		row := base
		row.StructureName = run.StructureName
		row.TypeOfParticipation = run.Product.String()
		row.PredecessorTitle = run.Predecessor
		row.Applied = run.Applied
		row.Reason = string(run.Reason)
		row.Scope = strings.Join(run.Scope, "+")
		row.InputExposure = run.InputExposure
		row.SignedShare = run.SignedShare
		row.CededToLayer = run.CededToLayer
		row.CededToReinsurer = run.CededToReinsurer
		row.RetainedAfter = run.RetainedAfter
		if run.QS != nil {
			pct := run.QS.CessionPct
			row.CessionPct = &pct
			row.Limit = run.QS.Limit
		}
		if run.XOL != nil {
			att := run.XOL.Attachment
			lim := run.XOL.Limit
			row.Attachment = &att
			row.Limit = &lim
		}
		if run.Rescaling != nil {
			factor := run.Rescaling.RetentionFactor
			row.RetentionFactor = &factor
			row.OriginalAttachment = run.Rescaling.OriginalAttachment
			row.OriginalLimit = run.Rescaling.OriginalLimit
		}
		rows = append(rows, row)
	}
	return rows
}

// Rows flattens every result in the report
func (r *ProgramRunReport) Rows() []Row {
	var rows []Row
	for i := range r.Results {
		rows = append(rows, r.Results[i].Rows()...)
	}
	return rows
}
