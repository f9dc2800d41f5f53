package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abaelde/structure-application/core/bordereau"
	"github.com/abaelde/structure-application/core/result"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dec := decimal.RequireFromString(v)
	return &dec
}

func bp(v bool) *bool {
	return &v
}

func date(t *testing.T, v string) time.Time {
	t.Helper()
	parsed, err := types.ParseDate(v)
	require.NoError(t, err)
	return parsed
}

func window(t *testing.T, from, to string) (time.Time, time.Time) {
	return date(t, from), date(t, to)
}

// testRow is a live policy of the synthetic test department
func testRow(exposure string) types.Row {
	return types.Row{
		"INSURED_NAME":   "Acme Insured",
		"INCEPTION_DATE": "2024-02-01",
		"EXPIRY_DATE":    "2030-01-01",
		"exposure":       exposure,
		"COUNTRY":        "France",
	}
}

func qsStructure(t *testing.T, name, predecessor string, cessionPct string) types.Structure {
	inception, expiry := window(t, "2024-01-01", "2025-01-01")
	return types.Structure{
		Name:        name,
		Product:     types.ProductQuotaShare,
		Predecessor: predecessor,
		ClaimBasis:  types.ClaimBasisLossOccurring,
		Inception:   inception,
		Expiry:      expiry,
		Conditions: []types.Condition{{
			CessionPct:  dp(cessionPct),
			SignedShare: d("1"),
		}},
	}
}

func xolStructure(t *testing.T, name, predecessor string, attachment, limit string) types.Structure {
	inception, expiry := window(t, "2024-01-01", "2025-01-01")
	return types.Structure{
		Name:        name,
		Product:     types.ProductExcessOfLoss,
		Predecessor: predecessor,
		ClaimBasis:  types.ClaimBasisLossOccurring,
		Inception:   inception,
		Expiry:      expiry,
		Conditions: []types.Condition{{
			Attachment:  dp(attachment),
			Limit:       dp(limit),
			SignedShare: d("1"),
		}},
	}
}

func testProgram(structures ...types.Structure) types.Program {
	return types.Program{
		Name:             "test-program",
		Department:       types.DepartmentTest,
		DimensionColumns: []string{"COUNTRY"},
		Structures:       structures,
	}
}

func TestApplyQuotaShareThenExcessOfLossRescales(t *testing.T) {
	program := testProgram(
		qsStructure(t, "qs", "", "0.30"),
		xolStructure(t, "xol", "qs", "20000000", "50000000"),
	)

	res, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	assert.Equal(t, result.StatusIncluded, res.Status)
	require.Len(t, res.Structures, 2)

	qs := res.Structures[0]
	assert.True(t, qs.Applied)
	assert.True(t, d("30000000").Equal(qs.CededToLayer), "QS cedes 30M, got %s", qs.CededToLayer)
	assert.True(t, d("70000000").Equal(qs.RetainedAfter))

	xol := res.Structures[1]
	assert.True(t, xol.Applied)
	assert.True(t, d("70000000").Equal(xol.InputExposure), "XOL input is the QS retention")
	require.NotNil(t, xol.Rescaling)
	assert.True(t, d("0.7").Equal(xol.Rescaling.RetentionFactor))
	assert.True(t, d("14000000").Equal(*xol.Rescaling.RescaledAttachment))
	assert.True(t, d("35000000").Equal(*xol.Rescaling.RescaledLimit))
	require.NotNil(t, xol.XOL)
	assert.True(t, d("14000000").Equal(xol.XOL.Attachment), "recorded terms are the rescaled ones")
	assert.True(t, d("35000000").Equal(xol.CededToLayer), "min(70M-14M, 35M)")

	assert.True(t, d("65000000").Equal(res.TotalCededToLayer))
	assert.True(t, d("35000000").Equal(res.RetainedByCedant))
}

func TestApplyConservation(t *testing.T) {
	program := testProgram(
		qsStructure(t, "qs", "", "0.25"),
		xolStructure(t, "xol", "qs", "10000000", "20000000"),
	)

	res, err := ApplyProgram(testRow("80000000"), program, "2024-06-15")
	require.NoError(t, err)

	recomputed := res.TotalCededToLayer.Add(res.RetainedByCedant)
	assert.True(t, res.Exposure.Equal(recomputed),
		"exposure %s != ceded %s + retained %s", res.Exposure, res.TotalCededToLayer, res.RetainedByCedant)
}

func TestApplyIsIdempotent(t *testing.T) {
	program := testProgram(
		qsStructure(t, "qs", "", "0.30"),
		xolStructure(t, "xol", "qs", "20000000", "50000000"),
	)

	first, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)
	second, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApplySignedShareScalesReinsurerCession(t *testing.T) {
	s := qsStructure(t, "qs", "", "0.40")
	s.Conditions[0].SignedShare = d("0.5")
	program := testProgram(s)

	res, err := ApplyProgram(testRow("1000000"), program, "2024-06-15")
	require.NoError(t, err)

	run := res.Structures[0]
	assert.True(t, d("400000").Equal(run.CededToLayer))
	assert.True(t, d("200000").Equal(run.CededToReinsurer))
	assert.True(t, d("400000").Equal(res.TotalCededToLayer))
	assert.True(t, d("200000").Equal(res.TotalCededToReinsurer))
}

func TestApplyTemporalGating(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))

	// Before the structure window: out_of_period regardless of the
	// policy's own inception.
	row := testRow("1000000")
	row["INCEPTION_DATE"] = "2022-02-01"
	res, err := ApplyProgram(row, program, "2023-06-15")
	require.NoError(t, err)
	run := res.Structures[0]
	assert.False(t, run.Applied)
	assert.Equal(t, result.SkipOutOfPeriod, run.Reason)
	assert.True(t, run.CededToLayer.IsZero())
	assert.True(t, d("1000000").Equal(run.RetainedAfter), "pass-through")
	assert.True(t, res.TotalCededToLayer.IsZero())

	// Inside the window it applies.
	res, err = ApplyProgram(row, program, "2024-06-15")
	require.NoError(t, err)
	assert.True(t, res.Structures[0].Applied)
}

func TestApplyRiskAttachingUsesPolicyInception(t *testing.T) {
	s := qsStructure(t, "qs", "", "0.30")
	s.ClaimBasis = types.ClaimBasisRiskAttaching
	program := testProgram(s)

	// Policy incepted inside the structure window; calculation date far
	// outside it.
	res, err := ApplyProgram(testRow("1000000"), program, "2029-06-15")
	require.NoError(t, err)
	assert.True(t, res.Structures[0].Applied)

	row := testRow("1000000")
	row["INCEPTION_DATE"] = "2023-02-01"
	res, err = ApplyProgram(row, program, "2024-06-15")
	require.NoError(t, err)
	assert.False(t, res.Structures[0].Applied)
	assert.Equal(t, result.SkipOutOfPeriod, res.Structures[0].Reason)
}

func TestApplyNoMatchingCondition(t *testing.T) {
	s := qsStructure(t, "qs", "", "0.30")
	s.Conditions[0].Dimensions = map[string][]string{"COUNTRY": {"Germany"}}
	program := testProgram(s)

	res, err := ApplyProgram(testRow("1000000"), program, "2024-06-15")
	require.NoError(t, err)

	run := res.Structures[0]
	assert.False(t, run.Applied)
	assert.Equal(t, result.SkipNoMatchingCondition, run.Reason)
	assert.True(t, d("1000000").Equal(run.RetainedAfter))
	assert.True(t, res.TotalCededToLayer.IsZero())
}

func TestApplyUnappliedPredecessorPassesThroughWithoutRescaling(t *testing.T) {
	// The QS never matches, so the XOL sees the gross exposure and its
	// terms stay on the gross base.
	qs := qsStructure(t, "qs", "", "0.30")
	qs.Conditions[0].Dimensions = map[string][]string{"COUNTRY": {"Germany"}}
	program := testProgram(
		qs,
		xolStructure(t, "xol", "qs", "20000000", "50000000"),
	)

	res, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	xol := res.Structures[1]
	assert.True(t, xol.Applied)
	assert.Nil(t, xol.Rescaling)
	assert.True(t, d("100000000").Equal(xol.InputExposure))
	assert.True(t, d("50000000").Equal(xol.CededToLayer), "min(100M-20M, 50M)")
}

func TestApplyXolOnXolDoesNotRescale(t *testing.T) {
	program := testProgram(
		xolStructure(t, "layer1", "", "10000000", "20000000"),
		xolStructure(t, "layer2", "layer1", "30000000", "50000000"),
	)

	res, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	layer2 := res.Structures[1]
	assert.True(t, layer2.Applied)
	assert.Nil(t, layer2.Rescaling)
	assert.True(t, d("80000000").Equal(layer2.InputExposure))
	assert.True(t, d("50000000").Equal(layer2.CededToLayer))
}

func TestApplyDeclarationOrderNeedNotBeTopological(t *testing.T) {
	// The XOL is declared before its predecessor; the audit trail keeps
	// declaration order while evaluation resolves the dependency.
	program := testProgram(
		xolStructure(t, "xol", "qs", "20000000", "50000000"),
		qsStructure(t, "qs", "", "0.30"),
	)

	res, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	require.Len(t, res.Structures, 2)
	assert.Equal(t, "xol", res.Structures[0].StructureName)
	assert.Equal(t, "qs", res.Structures[1].StructureName)
	assert.True(t, d("70000000").Equal(res.Structures[0].InputExposure))
	assert.True(t, d("65000000").Equal(res.TotalCededToLayer))
}

func TestApplySharedPredecessor(t *testing.T) {
	program := testProgram(
		qsStructure(t, "qs", "", "0.50"),
		xolStructure(t, "layer1", "qs", "10000000", "10000000"),
		xolStructure(t, "layer2", "qs", "40000000", "10000000"),
	)

	res, err := ApplyProgram(testRow("100000000"), program, "2024-06-15")
	require.NoError(t, err)

	// Both layers inure on the same 50M retention, rescaled by 0.5.
	layer1 := res.Structures[1]
	layer2 := res.Structures[2]
	assert.True(t, d("50000000").Equal(layer1.InputExposure))
	assert.True(t, d("50000000").Equal(layer2.InputExposure))
	require.NotNil(t, layer1.Rescaling)
	assert.True(t, d("5000000").Equal(*layer1.Rescaling.RescaledAttachment))
	require.NotNil(t, layer2.Rescaling)
	assert.True(t, d("20000000").Equal(*layer2.Rescaling.RescaledAttachment))
	assert.True(t, d("5000000").Equal(layer1.CededToLayer), "min(50M-5M, 5M) on rescaled terms")
	assert.True(t, d("5000000").Equal(layer2.CededToLayer), "min(50M-20M, 5M) on rescaled terms")
}

func TestApplyExclusionShortCircuits(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))
	program.Exclusions = []types.ExclusionRule{{
		Name:   "sanctioned countries",
		Values: map[string][]string{"COUNTRY": {"France"}},
	}}

	res, err := ApplyProgram(testRow("1000000"), program, "2024-06-15")
	require.NoError(t, err)

	assert.Equal(t, result.StatusExcluded, res.Status)
	assert.Equal(t, "sanctioned countries", res.StatusReason)
	assert.True(t, res.EffectiveExposure.IsZero())
	assert.True(t, res.TotalCededToLayer.IsZero())
	assert.Empty(t, res.Structures)
}

func TestApplyExclusionWindowGatesRule(t *testing.T) {
	eff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	program := testProgram(qsStructure(t, "qs", "", "0.30"))
	program.Exclusions = []types.ExclusionRule{{
		Values:    map[string][]string{"COUNTRY": {"France"}},
		Effective: &eff,
	}}

	// Rule is not yet in force on the calculation date.
	res, err := ApplyProgram(testRow("1000000"), program, "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, result.StatusIncluded, res.Status)
}

func TestApplyInactivePolicy(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))
	row := testRow("1000000")
	row["EXPIRY_DATE"] = "2024-03-01"

	res, err := ApplyProgram(row, program, "2024-06-15")
	require.NoError(t, err)

	assert.Equal(t, result.StatusInactive, res.Status)
	assert.Contains(t, res.StatusReason, "2024-03-01")
	assert.Contains(t, res.StatusReason, "2024-06-15")
	assert.True(t, res.Exposure.IsZero())
	assert.True(t, res.TotalCededToLayer.IsZero())
	assert.Empty(t, res.Structures)
}

func TestApplyAviationScoping(t *testing.T) {
	inception, expiry := window(t, "2024-01-01", "2025-01-01")
	program := types.Program{
		Name:             "aviation-program",
		Department:       types.DepartmentAviation,
		DimensionColumns: []string{"CURRENCY"},
		Structures: []types.Structure{{
			Name:       "hull-qs",
			Product:    types.ProductQuotaShare,
			ClaimBasis: types.ClaimBasisLossOccurring,
			Inception:  inception,
			Expiry:     expiry,
			Conditions: []types.Condition{{
				CessionPct:        dp("0.50"),
				SignedShare:       d("1"),
				IncludesHull:      bp(true),
				IncludesLiability: bp(false),
			}},
		}},
	}

	row := types.Row{
		"INSURED_NAME":    "Air Alpha",
		"INCEPTION_DATE":  "2024-02-01",
		"EXPIRY_DATE":     "2030-01-01",
		"HULL_LIMIT":      "30000000",
		"HULL_SHARE":      "0.5",
		"LIABILITY_LIMIT": "100000000",
		"LIABILITY_SHARE": "0.5",
		"HULL_CURRENCY":   "USD",
	}

	res, err := ApplyProgram(row, program, "2024-06-15")
	require.NoError(t, err)

	run := res.Structures[0]
	assert.True(t, run.Applied)
	assert.Equal(t, []string{types.ComponentHull}, run.Scope)
	assert.True(t, d("15000000").Equal(run.InputExposure), "hull-only scope uses 15M, never 65M")
	assert.True(t, d("7500000").Equal(run.CededToLayer))
	assert.True(t, d("65000000").Equal(res.Exposure))
}

func TestApplyRejectsDanglingPredecessor(t *testing.T) {
	program := testProgram(xolStructure(t, "xol", "ghost", "1000000", "2000000"))

	_, err := New(program)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestApplyToBordereau(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))

	columns := []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "exposure", "COUNTRY"}
	rows := []types.Row{
		testRow("1000000"),
		testRow("2000000"),
	}
	batch, err := bordereau.New(columns, rows)
	require.NoError(t, err)

	report, err := ApplyProgramToBordereau(batch, program, "run-1", "2024-06-15")
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Results, 2)
	assert.True(t, d("900000").Equal(report.TotalCededToLayer))
}

func TestApplyToBordereauFailsFastOnMissingExposureColumns(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))

	columns := []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "COUNTRY"}
	batch, err := bordereau.New(columns, []types.Row{testRow("1000000")})
	require.NoError(t, err)

	_, err = ApplyProgramToBordereau(batch, program, "run-2", "2024-06-15")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "exposure")
}

func TestApplyPropagatesRowExposureError(t *testing.T) {
	program := testProgram(qsStructure(t, "qs", "", "0.30"))

	columns := []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "exposure", "COUNTRY"}
	bad := testRow("not-a-number")
	batch, err := bordereau.New(columns, []types.Row{bad})
	require.NoError(t, err)

	_, err = ApplyProgramToBordereau(batch, program, "run-3", "2024-06-15")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeExposure))
}
