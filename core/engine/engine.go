// Package engine walks a program's structures in dependency order and
// computes each policy's cessions: input exposure per structure (base
// exposure or predecessor retention, filtered to hull/liability scope),
// net-base rescaling for layers inuring on a quota share, the product
// formula per matched condition, and aggregated totals with full audit
// detail per structure.
package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abaelde/structure-application/core/bordereau"
	"github.com/abaelde/structure-application/core/exposure"
	"github.com/abaelde/structure-application/core/graph"
	"github.com/abaelde/structure-application/core/match"
	"github.com/abaelde/structure-application/core/policy"
	"github.com/abaelde/structure-application/core/product"
	"github.com/abaelde/structure-application/core/result"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
	"github.com/abaelde/structure-application/internal/logging"
)

// Engine applies one program to policies. Construction resolves the
// predecessor graph once; after that the engine is read-only and safe to
// share across concurrent policy evaluations.
type Engine struct {
	program types.Program
	graph   *graph.Graph
	log     *zap.Logger
}

// New builds an engine for the program. Dangling predecessor references
// and predecessor cycles are rejected here, once per program, rather than
// surfacing during evaluation.
func New(program types.Program) (*Engine, error) {
	if !program.Department.IsValid() {
		return nil, errors.Configf("program %q: underwriting_department %q is not supported (supported: %v)",
			program.Name, program.Department, types.SupportedDepartments())
	}
	g, err := graph.Build(program.Structures)
	if err != nil {
		return nil, err
	}
	return &Engine{
		program: program,
		graph:   g,
		log:     logging.Named("engine"),
	}, nil
}

// Program returns the engine's program
func (e *Engine) Program() types.Program {
	return e.program
}

// structureOutput is the memoized per-policy output of one structure,
// consumed by its successors. Local to one policy evaluation.
type structureOutput struct {
	retained   decimal.Decimal
	applied    bool
	product    types.ProductType
	cessionPct *decimal.Decimal
}

// Apply evaluates the program against one policy row. No-match and
// out-of-period are recorded as outcomes, never returned as errors; the
// error return covers exposure calculation failures and unknown-dimension
// configuration errors only.
func (e *Engine) Apply(row types.Row, calculationDate time.Time) (*result.ProgramRunResult, error) {
	p := policy.New(row, e.program.Department)

	res := &result.ProgramRunResult{
		ProgramName:     e.program.Name,
		InsuredName:     p.InsuredName(),
		Department:      e.program.Department,
		CalculationDate: calculationDate,
		Status:          result.StatusIncluded,
	}

	excluded, reason, err := e.isExcluded(p, calculationDate)
	if err != nil {
		return nil, err
	}
	if excluded {
		res.Status = result.StatusExcluded
		res.StatusReason = reason
		return res, nil
	}

	active, reason, err := p.IsActive(calculationDate)
	if err != nil {
		return nil, err
	}
	if !active {
		res.Status = result.StatusInactive
		res.StatusReason = reason
		return res, nil
	}

	bundle, err := p.Exposure()
	if err != nil {
		return nil, err
	}
	res.Exposure = bundle.Total
	res.EffectiveExposure = bundle.Total

	runs, err := e.processStructures(p, bundle, calculationDate)
	if err != nil {
		return nil, err
	}
	res.Structures = runs
	for _, run := range runs {
		if !run.Applied {
			continue
		}
		res.TotalCededToLayer = res.TotalCededToLayer.Add(run.CededToLayer)
		res.TotalCededToReinsurer = res.TotalCededToReinsurer.Add(run.CededToReinsurer)
	}
	res.RetainedByCedant = res.EffectiveExposure.Sub(res.TotalCededToLayer)

	e.log.Debug("policy processed",
		zap.String("insured", res.InsuredName),
		zap.String("exposure", res.Exposure.String()),
		zap.String("ceded_to_layer", res.TotalCededToLayer.String()))
	return res, nil
}

// processStructures walks the evaluation order. Every structure's
// predecessor has already produced its output when the structure is
// reached, so no recursion or memo guard is needed at evaluation time.
// Runs are returned in the program's declared structure order.
func (e *Engine) processStructures(p *policy.Policy, bundle exposure.Bundle, calculationDate time.Time) ([]result.StructureRun, error) {
	inception, err := p.Inception()
	if err != nil {
		return nil, err
	}

	outputs := make([]structureOutput, e.graph.Len())
	runs := make([]result.StructureRun, e.graph.Len())

	for _, idx := range e.graph.Order() {
		s := e.graph.Structure(idx)
		predIdx := e.graph.Predecessor(idx)

		// Input is the policy's own bundle for entry points, otherwise the
		// policy bundle rescaled to the predecessor's retained total.
		input := bundle
		if predIdx != graph.NoPredecessor {
			input = bundle.FractionTo(outputs[predIdx].retained)
		}

		run := result.StructureRun{
			StructureName: s.Name,
			Product:       s.Product,
			Predecessor:   s.Predecessor,
		}

		if !s.IsApplicable(inception, calculationDate) {
			run.Reason = result.SkipOutOfPeriod
			run.InputExposure = input.Total
			run.RetainedAfter = input.Total
			runs[idx] = run
			outputs[idx] = structureOutput{retained: input.Total}
			continue
		}

		cond, _, err := match.Best(p, s.Conditions, e.program.DimensionColumns)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			run.Reason = result.SkipNoMatchingCondition
			run.InputExposure = input.Total
			run.RetainedAfter = input.Total
			runs[idx] = run
			outputs[idx] = structureOutput{retained: input.Total}
			continue
		}

		// Hull/liability scope comes from the matched condition; only
		// aviation business has components to restrict.
		var scope []string
		if e.program.Department == types.DepartmentAviation {
			scope = cond.ScopeComponents()
		}
		scopedInput := input.Select(scope)

		applied := *cond
		if predIdx != graph.NoPredecessor && s.Product == types.ProductExcessOfLoss {
			pred := outputs[predIdx]
			if pred.applied && pred.product == types.ProductQuotaShare && pred.cessionPct != nil {
				factor := decimal.NewFromInt(1).Sub(*pred.cessionPct)
				rescaled, info := product.RescaleToNetBase(applied, factor)
				applied = rescaled
				run.Rescaling = &info
			}
		}

		ceded, err := product.Apply(s.Product, scopedInput, applied)
		if err != nil {
			return nil, err
		}
		cededToReinsurer := ceded.Mul(applied.SignedShare)
		retained := scopedInput.Sub(ceded)

		run.Applied = true
		run.Scope = scope
		run.InputExposure = scopedInput
		share := applied.SignedShare
		run.SignedShare = &share
		run.CededToLayer = ceded
		run.CededToReinsurer = cededToReinsurer
		run.RetainedAfter = retained
		switch s.Product {
		case types.ProductQuotaShare:
			run.QS = &result.QSTerms{CessionPct: *applied.CessionPct, Limit: applied.Limit}
		case types.ProductExcessOfLoss:
			run.XOL = &result.XOLTerms{Attachment: *applied.Attachment, Limit: *applied.Limit}
		}

		runs[idx] = run
		outputs[idx] = structureOutput{
			retained:   retained,
			applied:    true,
			product:    s.Product,
			cessionPct: cond.CessionPct,
		}
	}

	return runs, nil
}

// ApplyProgram is the package-level entry point: it builds an engine for
// the program and applies it to one policy row on the given calculation
// date (YYYY-MM-DD).
func ApplyProgram(row types.Row, program types.Program, calculationDate string) (*result.ProgramRunResult, error) {
	e, err := New(program)
	if err != nil {
		return nil, err
	}
	date, err := types.ParseDate(calculationDate)
	if err != nil {
		return nil, err
	}
	return e.Apply(row, date)
}

// ApplyToBordereau applies the program to every row of a validated
// bordereau. The department's exposure columns are checked batch-wide
// before any row is processed; a per-row exposure failure aborts the batch
// rather than silently dropping the row.
func (e *Engine) ApplyToBordereau(b *bordereau.Bordereau, runID string, calculationDate time.Time) (*result.ProgramRunReport, error) {
	if err := b.ValidateForDepartment(e.program.Department); err != nil {
		return nil, err
	}

	report := &result.ProgramRunReport{
		RunID:           runID,
		ProgramName:     e.program.Name,
		Department:      e.program.Department,
		CalculationDate: calculationDate,
		Results:         make([]result.ProgramRunResult, 0, b.Len()),
	}
	for i, row := range b.Rows {
		res, err := e.Apply(row, calculationDate)
		if err != nil {
			errType := errors.TypeInternal
			if de, ok := err.(*errors.Error); ok {
				errType = de.Type
			}
			return nil, errors.Wrapf(errType, err, "bordereau row %d", i)
		}
		report.Results = append(report.Results, *res)
	}
	report.Summarize()

	e.log.Info("bordereau processed",
		zap.String("run_id", report.RunID),
		zap.String("program", report.ProgramName),
		zap.Int("policies", len(report.Results)),
		zap.String("total_ceded_to_layer", report.TotalCededToLayer.String()))
	return report, nil
}

// ApplyProgramToBordereau is the package-level batch entry point
func ApplyProgramToBordereau(b *bordereau.Bordereau, program types.Program, runID string, calculationDate string) (*result.ProgramRunReport, error) {
	e, err := New(program)
	if err != nil {
		return nil, err
	}
	date, err := types.ParseDate(calculationDate)
	if err != nil {
		return nil, err
	}
	return e.ApplyToBordereau(b, runID, date)
}
