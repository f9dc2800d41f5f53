// Package api - Request/response shapes
package api

import (
	"github.com/abaelde/structure-application/adapters/programio"
	"github.com/abaelde/structure-application/core/result"
)

// BordereauDoc is the JSON shape of a bordereau batch
type BordereauDoc struct {
	// Columns is the header, in order
	Columns []string `json:"columns"`

	// Rows map column name to cell value; multi-valued cells use the
	// in-cell semicolon separator
	Rows []map[string]string `json:"rows"`
}

// ApplyRequest applies a program to a bordereau
type ApplyRequest struct {
	Program         programio.ProgramDoc `json:"program"`
	Bordereau       BordereauDoc         `json:"bordereau"`
	CalculationDate string               `json:"calculation_date"`
}

// ApplyResponse returns the full report plus its flat row view
type ApplyResponse struct {
	RunID  string                   `json:"run_id"`
	Report *result.ProgramRunReport `json:"report"`
	Rows   []result.Row             `json:"rows"`
}

// ValidateRequest validates a program definition
type ValidateRequest struct {
	Program programio.ProgramDoc `json:"program"`
}

// ValidateResponse reports the validation verdict
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}
