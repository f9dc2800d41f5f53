// Package bordereau validates and normalizes a batch of policy rows before
// the engine applies a program to them. Schema checks only; no cession
// logic lives here.
package bordereau

import (
	"strings"

	"github.com/abaelde/structure-application/core/exposure"
	"github.com/abaelde/structure-application/core/policy"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// IdentityColumns are required on every bordereau regardless of department
func IdentityColumns() []string {
	return []string{policy.ColInsuredName, policy.ColInception, policy.ColExpiry}
}

// Bordereau is a validated, normalized batch of policy rows
type Bordereau struct {
	// Columns is the header, in file order
	Columns []string

	// Rows are the normalized rows: every header column present as a key,
	// cells trimmed, blank cells kept as empty strings
	Rows []types.Row
}

// New validates the identity columns and normalizes the rows. Missing
// identity columns fail the whole batch with a descriptive error.
func New(columns []string, rows []types.Row) (*Bordereau, error) {
	header := make(map[string]struct{}, len(columns))
	cleaned := make([]string, 0, len(columns))
	for _, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			continue
		}
		header[name] = struct{}{}
		cleaned = append(cleaned, name)
	}

	if missing := missingFrom(header, IdentityColumns()); len(missing) > 0 {
		return nil, errors.Inputf("bordereau is missing required identity columns: %s", strings.Join(missing, ", "))
	}

	normalized := make([]types.Row, len(rows))
	for i, row := range rows {
		n := make(types.Row, len(cleaned))
		for _, col := range cleaned {
			n[col] = strings.TrimSpace(row[col])
		}
		normalized[i] = n
	}

	return &Bordereau{Columns: cleaned, Rows: normalized}, nil
}

// ValidateForDepartment checks that the exposure columns the department's
// calculator reads are present in the header. This is the batch-level
// fail-fast gate: it runs before any row is processed so a missing column
// surfaces once, not as a per-row error.
func (b *Bordereau) ValidateForDepartment(dept types.Department) error {
	required, err := exposure.RequiredColumns(dept)
	if err != nil {
		return err
	}
	header := make(map[string]struct{}, len(b.Columns))
	for _, c := range b.Columns {
		header[c] = struct{}{}
	}
	if missing := missingFrom(header, required); len(missing) > 0 {
		return errors.Inputf("bordereau is missing exposure columns required for department %q: %s",
			dept, strings.Join(missing, ", "))
	}
	return nil
}

// Len returns the number of rows
func (b *Bordereau) Len() int {
	return len(b.Rows)
}

func missingFrom(header map[string]struct{}, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
