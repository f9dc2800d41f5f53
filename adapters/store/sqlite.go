// Package store persists run results to SQLite. The store sits strictly
// downstream of the engine: it is written after a run completes and never
// consulted during calculation.
package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abaelde/structure-application/core/result"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Store is a SQLite-backed run store
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// RunSummary is one row of the runs table
type RunSummary struct {
	RunID                 string    `json:"run_id"`
	ProgramName           string    `json:"program_name"`
	Department            string    `json:"underwriting_department"`
	CalculationDate       string    `json:"calculation_date"`
	PolicyCount           int       `json:"policy_count"`
	TotalCededToLayer     string    `json:"total_ceded_to_layer_100pct"`
	TotalCededToReinsurer string    `json:"total_ceded_to_reinsurer"`
	CreatedAt             time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id                   TEXT PRIMARY KEY,
	program_name             TEXT NOT NULL,
	department               TEXT NOT NULL,
	calculation_date         TEXT NOT NULL,
	policy_count             INTEGER NOT NULL,
	total_ceded_to_layer     TEXT NOT NULL,
	total_ceded_to_reinsurer TEXT NOT NULL,
	created_at               TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_rows (
	run_id                      TEXT NOT NULL REFERENCES runs(run_id),
	row_index                   INTEGER NOT NULL,
	program_name                TEXT NOT NULL,
	insured_name                TEXT NOT NULL,
	department                  TEXT NOT NULL,
	calculation_date            TEXT NOT NULL,
	exclusion_status            TEXT NOT NULL,
	status_reason               TEXT,
	exposure                    TEXT NOT NULL,
	effective_exposure          TEXT NOT NULL,
	structure_name              TEXT,
	type_of_participation       TEXT,
	predecessor_title           TEXT,
	applied                     TEXT NOT NULL,
	reason                      TEXT,
	scope                       TEXT,
	input_exposure              TEXT NOT NULL,
	cession_pct                 TEXT,
	attachment                  TEXT,
	lim                         TEXT,
	signed_share                TEXT,
	retention_factor            TEXT,
	original_attachment         TEXT,
	original_limit              TEXT,
	ceded_to_layer_100pct       TEXT NOT NULL,
	ceded_to_reinsurer          TEXT NOT NULL,
	retained_after              TEXT NOT NULL,
	total_ceded_to_layer_100pct TEXT NOT NULL,
	total_ceded_to_reinsurer    TEXT NOT NULL,
	retained_by_cedant          TEXT NOT NULL,
	PRIMARY KEY (run_id, row_index)
);

CREATE INDEX IF NOT EXISTS idx_run_rows_insured ON run_rows (run_id, insured_name);
`

// Open opens (and migrates) a run store at the given path. Use ":memory:"
// for an in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("cannot open run store "+path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Storage("cannot migrate run store", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport persists a run and its flat rows in one transaction
func (s *Store) SaveReport(ctx context.Context, report *result.ProgramRunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("cannot begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, program_name, department, calculation_date, policy_count, total_ceded_to_layer, total_ceded_to_reinsurer)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.ProgramName,
		report.Department.String(),
		report.CalculationDate.Format(types.DateLayout),
		len(report.Results),
		report.TotalCededToLayer.String(),
		report.TotalCededToReinsurer.String(),
	)
	if err != nil {
		return errors.Storage("cannot insert run", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_rows (run_id, row_index, program_name, insured_name, department, calculation_date,
		                       exclusion_status, status_reason, exposure, effective_exposure,
		                       structure_name, type_of_participation, predecessor_title, applied, reason, scope,
		                       input_exposure, cession_pct, attachment, lim, signed_share,
		                       retention_factor, original_attachment, original_limit,
		                       ceded_to_layer_100pct, ceded_to_reinsurer, retained_after,
		                       total_ceded_to_layer_100pct, total_ceded_to_reinsurer, retained_by_cedant)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Storage("cannot prepare row insert", err)
	}
	defer stmt.Close()

	for i, row := range report.Rows() {
		record := row.Record()
		args := make([]interface{}, 0, len(record)+2)
		args = append(args, report.RunID, i)
		for _, field := range record {
			args = append(args, field)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Storage("cannot insert run row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("cannot commit run", err)
	}
	return nil
}

// ListRuns returns run summaries, newest first
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, program_name, department, calculation_date, policy_count,
		        total_ceded_to_layer, total_ceded_to_reinsurer, created_at
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Storage("cannot list runs", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var sm RunSummary
		if err := rows.Scan(&sm.RunID, &sm.ProgramName, &sm.Department, &sm.CalculationDate,
			&sm.PolicyCount, &sm.TotalCededToLayer, &sm.TotalCededToReinsurer, &sm.CreatedAt); err != nil {
			return nil, errors.Storage("cannot scan run summary", err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// GetRunRecords returns the persisted flat rows of one run as CSV-aligned
// records (see result.CSVHeader for column order).
func (s *Store) GetRunRecords(ctx context.Context, runID string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT program_name, insured_name, department, calculation_date,
		        exclusion_status, status_reason, exposure, effective_exposure,
		        structure_name, type_of_participation, predecessor_title, applied, reason, scope,
		        input_exposure, cession_pct, attachment, lim, signed_share,
		        retention_factor, original_attachment, original_limit,
		        ceded_to_layer_100pct, ceded_to_reinsurer, retained_after,
		        total_ceded_to_layer_100pct, total_ceded_to_reinsurer, retained_by_cedant
		 FROM run_rows WHERE run_id = ? ORDER BY row_index`, runID)
	if err != nil {
		return nil, errors.Storage("cannot query run rows", err)
	}
	defer rows.Close()

	header := result.CSVHeader()
	var records [][]string
	for rows.Next() {
		fields := make([]sql.NullString, len(header))
		dest := make([]interface{}, len(header))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Storage("cannot scan run row", err)
		}
		record := make([]string, len(header))
		for i, f := range fields {
			record[i] = f.String
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, errors.NotFound("run", runID)
	}
	return records, rows.Err()
}
