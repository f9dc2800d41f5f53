// Package api exposes the engine over HTTP. The API is a thin wrapper: all
// cession logic lives in core/engine.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abaelde/structure-application/core/bordereau"
	"github.com/abaelde/structure-application/core/engine"
	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// Handler holds the API dependencies
type Handler struct {
	log *zap.Logger
}

// NewHandler creates an API handler
func NewHandler(log *zap.Logger) *Handler {
	return &Handler{log: log}
}

// Apply handles POST /api/v1/apply
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.Parsing("invalid request body", err))
		return
	}

	program, err := req.Program.ToProgram()
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	rows := make([]types.Row, 0, len(req.Bordereau.Rows))
	for _, raw := range req.Bordereau.Rows {
		rows = append(rows, types.Row(raw))
	}
	batch, err := bordereau.New(req.Bordereau.Columns, rows)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	runID := uuid.NewString()
	report, err := engine.ApplyProgramToBordereau(batch, program, runID, req.CalculationDate)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ApplyResponse{
		RunID:  runID,
		Report: report,
		Rows:   report.Rows(),
	})
}

// Validate handles POST /api/v1/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.Parsing("invalid request body", err))
		return
	}

	resp := ValidateResponse{Valid: true}
	program, err := req.Program.ToProgram()
	if err == nil {
		_, err = engine.New(program)
	}
	if err != nil {
		resp.Valid = false
		resp.Errors = append(resp.Errors, err.Error())
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("cannot encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if de, ok := err.(*errors.Error); ok {
		resp.Type = string(de.Type)
	}
	h.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	h.writeJSON(w, status, resp)
}
