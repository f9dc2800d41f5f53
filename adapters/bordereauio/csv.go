// Package bordereauio reads bordereau files into validated batches. CSV is
// header-driven; multi-valued cells (e.g. aviation currency lists) use a
// semicolon separator inside the cell.
package bordereauio

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/abaelde/structure-application/core/bordereau"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Parse reads CSV from r. The first record is the header; every following
// record becomes one normalized row.
func Parse(r io.Reader) (*bordereau.Bordereau, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Parsing("invalid bordereau CSV", err)
	}
	if len(records) == 0 {
		return nil, errors.Input("bordereau CSV is empty")
	}

	header := records[0]
	seen := make(map[string]struct{}, len(header))
	for _, column := range header {
		name := strings.TrimSpace(column)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, errors.Inputf("bordereau CSV has duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}

	rows := make([]types.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(types.Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}

	return bordereau.New(header, rows)
}

// Load reads and parses a bordereau CSV file
func Load(path string) (*bordereau.Bordereau, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "cannot read bordereau file "+path, err)
	}
	defer f.Close()
	return Parse(f)
}
