package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

func date(v string) time.Time {
	t, err := types.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsActive(t *testing.T) {
	p := New(types.Row{
		"INSURED_NAME":   "Air Alpha",
		"INCEPTION_DATE": "2024-01-01",
		"EXPIRY_DATE":    "2025-01-01",
	}, types.DepartmentTest)

	active, _, err := p.IsActive(date("2024-06-15"))
	require.NoError(t, err)
	assert.True(t, active)

	// Expiry is exclusive: expired on the calculation date is inactive.
	inactive, reason, err := p.IsActive(date("2025-01-01"))
	require.NoError(t, err)
	assert.False(t, inactive)
	assert.Contains(t, reason, "2025-01-01")

	inactive, reason, err = p.IsActive(date("2026-03-01"))
	require.NoError(t, err)
	assert.False(t, inactive)
	assert.Contains(t, reason, "2026-03-01")
}

func TestDimensionValueDirectColumn(t *testing.T) {
	p := New(types.Row{"COUNTRY": "France"}, types.DepartmentCasualty)

	v, err := p.DimensionValue("COUNTRY")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.IsScalar())
	assert.Equal(t, "France", v.Scalar())
}

func TestDimensionValueMultiValuedCell(t *testing.T) {
	p := New(types.Row{"HULL_CURRENCY": "USD;EUR"}, types.DepartmentAviation)

	v, err := p.DimensionValue("CURRENCY")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.List)
	assert.Equal(t, []string{"USD", "EUR"}, v.Values)
}

func TestDimensionValueCasualtyCurrencyMapping(t *testing.T) {
	// ORIGINAL_CURRENCY is preferred over CURRENCY.
	p := New(types.Row{"ORIGINAL_CURRENCY": "GBP", "CURRENCY": "USD"}, types.DepartmentCasualty)
	v, err := p.DimensionValue("CURRENCY")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "USD", v.Scalar(), "a direct column always wins over the mapping")

	// Without a direct CURRENCY column the mapping resolves ORIGINAL_CURRENCY.
	p = New(types.Row{"ORIGINAL_CURRENCY": "GBP"}, types.DepartmentCasualty)
	v, err = p.DimensionValue("CURRENCY")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "GBP", v.Scalar())
}

func TestDimensionValueMissingDataIsUnconstrained(t *testing.T) {
	// The column exists in the header but the cell is blank.
	p := New(types.Row{"COUNTRY": ""}, types.DepartmentCasualty)

	v, err := p.DimensionValue("COUNTRY")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDimensionValueUnknownDimensionFails(t *testing.T) {
	p := New(types.Row{"COUNTRY": "France"}, types.DepartmentCasualty)

	_, err := p.DimensionValue("PLANET")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeDimension))
	assert.Contains(t, err.Error(), "PLANET")
}

func TestDatesAreCached(t *testing.T) {
	row := types.Row{
		"INCEPTION_DATE": "2024-01-01",
		"EXPIRY_DATE":    "2025-01-01",
	}
	p := New(row, types.DepartmentTest)

	first, err := p.Inception()
	require.NoError(t, err)

	// Mutating the row after the first parse must not change the view.
	row["INCEPTION_DATE"] = "1999-01-01"
	second, err := p.Inception()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
