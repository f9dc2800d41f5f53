package bordereau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

func TestNewNormalizesRows(t *testing.T) {
	columns := []string{" INSURED_NAME ", "INCEPTION_DATE", "EXPIRY_DATE", "exposure", ""}
	rows := []types.Row{
		{"INSURED_NAME": "  Acme  ", "INCEPTION_DATE": "2024-01-01", "EXPIRY_DATE": "2025-01-01"},
	}

	b, err := New(columns, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "exposure"}, b.Columns)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "Acme", b.Rows[0]["INSURED_NAME"])

	// Columns absent from the source row are kept as blank cells so a
	// recognized-but-empty dimension reads as unconstrained, not unknown.
	v, ok := b.Rows[0]["exposure"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestNewRejectsMissingIdentityColumns(t *testing.T) {
	_, err := New([]string{"INSURED_NAME", "exposure"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "INCEPTION_DATE")
	assert.Contains(t, err.Error(), "EXPIRY_DATE")
}

func TestValidateForDepartment(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		dept    types.Department
		missing string
	}{
		{
			name:    "test department complete",
			columns: []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "exposure"},
			dept:    types.DepartmentTest,
		},
		{
			name:    "test department missing exposure",
			columns: []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE"},
			dept:    types.DepartmentTest,
			missing: "exposure",
		},
		{
			name: "casualty complete",
			columns: []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE",
				"LIMIT", "CEDENT_SHARE"},
			dept: types.DepartmentCasualty,
		},
		{
			name:    "casualty missing share",
			columns: []string{"INSURED_NAME", "INCEPTION_DATE", "EXPIRY_DATE", "LIMIT"},
			dept:    types.DepartmentCasualty,
			missing: "CEDENT_SHARE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.columns, nil)
			require.NoError(t, err)

			err = b.ValidateForDepartment(tt.dept)
			if tt.missing == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLen(t *testing.T) {
	b, err := New(IdentityColumns(), []types.Row{{}, {}, {}})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())
}
