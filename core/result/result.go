// Package result defines the structured, serializable output of a program
// run: per-structure application detail plus program-level totals. Results
// are created once per policy per run and never mutated afterwards.
package result

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/product"
	"github.com/abaelde/structure-application/core/types"
)

// SkipReason explains why a structure did not apply to a policy. These are
// expected outcomes, not errors.
type SkipReason string

const (
	// SkipNone marks an applied structure
	SkipNone SkipReason = ""

	// SkipOutOfPeriod marks a structure whose validity window excludes the
	// claim-basis reference date
	SkipOutOfPeriod SkipReason = "out_of_period"

	// SkipNoMatchingCondition marks a structure none of whose conditions
	// qualified for the policy
	SkipNoMatchingCondition SkipReason = "no_matching_condition"
)

// QSTerms are the financial terms of a matched quota share condition
type QSTerms struct {
	CessionPct decimal.Decimal  `json:"cession_pct"`
	Limit      *decimal.Decimal `json:"limit,omitempty"`
}

// XOLTerms are the financial terms of a matched excess of loss condition,
// as applied (post-rescaling when inuring on a quota share).
type XOLTerms struct {
	Attachment decimal.Decimal `json:"attachment"`
	Limit      decimal.Decimal `json:"limit"`
}

// StructureRun is the per-structure, per-policy outcome
type StructureRun struct {
	// StructureName identifies the structure
	StructureName string `json:"structure_name"`

	// Product is the structure's participation type
	Product types.ProductType `json:"type_of_participation"`

	// Predecessor names the inuring predecessor, empty for entry points
	Predecessor string `json:"predecessor_title,omitempty"`

	// Applied is true when a cession was computed
	Applied bool `json:"applied"`

	// Reason explains a non-applied structure
	Reason SkipReason `json:"reason,omitempty"`

	// Scope lists the exposure components used; nil means full scope
	Scope []string `json:"scope,omitempty"`

	// InputExposure is the exposure the structure was tested against
	InputExposure decimal.Decimal `json:"input_exposure"`

	// QS carries the matched quota share terms, when applicable
	QS *QSTerms `json:"qs_terms,omitempty"`

	// XOL carries the matched excess of loss terms, when applicable
	XOL *XOLTerms `json:"xol_terms,omitempty"`

	// SignedShare is the matched condition's signed share
	SignedShare *decimal.Decimal `json:"signed_share,omitempty"`

	// Rescaling records net-base rescaling, when the structure inured on a
	// quota share
	Rescaling *product.RescalingInfo `json:"rescaling,omitempty"`

	// CededToLayer is the cession on a 100% basis
	CededToLayer decimal.Decimal `json:"ceded_to_layer_100pct"`

	// CededToReinsurer is CededToLayer scaled by the signed share
	CededToReinsurer decimal.Decimal `json:"ceded_to_reinsurer"`

	// RetainedAfter is the input exposure left after this structure
	RetainedAfter decimal.Decimal `json:"retained_after"`
}

// ExclusionStatus is the policy-level terminal state of a run
type ExclusionStatus string

const (
	StatusIncluded ExclusionStatus = "included"
	StatusInactive ExclusionStatus = "inactive"
	StatusExcluded ExclusionStatus = "excluded"
)

// ProgramRunResult is one policy's full outcome
type ProgramRunResult struct {
	// ProgramName identifies the program applied
	ProgramName string `json:"program_name"`

	// InsuredName identifies the policy
	InsuredName string `json:"insured_name"`

	// Department is the program's underwriting department
	Department types.Department `json:"underwriting_department"`

	// CalculationDate is the evaluation date of the run
	CalculationDate time.Time `json:"calculation_date"`

	// Status is the policy's terminal state
	Status ExclusionStatus `json:"exclusion_status"`

	// StatusReason explains an inactive or excluded status
	StatusReason string `json:"status_reason,omitempty"`

	// Exposure is the policy's computed total exposure
	Exposure decimal.Decimal `json:"exposure"`

	// EffectiveExposure is the exposure actually entering the program
	// (zero for inactive and excluded policies)
	EffectiveExposure decimal.Decimal `json:"effective_exposure"`

	// Structures is the ordered per-structure audit trail
	Structures []StructureRun `json:"structures"`

	// TotalCededToLayer sums ceded_to_layer_100pct over applied structures
	TotalCededToLayer decimal.Decimal `json:"total_ceded_to_layer_100pct"`

	// TotalCededToReinsurer sums ceded_to_reinsurer over applied structures
	TotalCededToReinsurer decimal.Decimal `json:"total_ceded_to_reinsurer"`

	// RetainedByCedant is EffectiveExposure minus TotalCededToLayer
	RetainedByCedant decimal.Decimal `json:"retained_by_cedant"`
}

// ProgramRunReport is the outcome of one batch run over a bordereau
type ProgramRunReport struct {
	// RunID uniquely identifies the run
	RunID string `json:"run_id"`

	// ProgramName identifies the program applied
	ProgramName string `json:"program_name"`

	// Department is the program's underwriting department
	Department types.Department `json:"underwriting_department"`

	// CalculationDate is the evaluation date of the run
	CalculationDate time.Time `json:"calculation_date"`

	// Results holds one entry per bordereau row, in row order
	Results []ProgramRunResult `json:"results"`

	// TotalCededToLayer sums over all policies
	TotalCededToLayer decimal.Decimal `json:"total_ceded_to_layer_100pct"`

	// TotalCededToReinsurer sums over all policies
	TotalCededToReinsurer decimal.Decimal `json:"total_ceded_to_reinsurer"`
}

// Summarize recomputes the report-level totals from the per-policy results
func (r *ProgramRunReport) Summarize() {
	r.TotalCededToLayer = decimal.Zero
	r.TotalCededToReinsurer = decimal.Zero
	for _, res := range r.Results {
		r.TotalCededToLayer = r.TotalCededToLayer.Add(res.TotalCededToLayer)
		r.TotalCededToReinsurer = r.TotalCededToReinsurer.Add(res.TotalCededToReinsurer)
	}
}
