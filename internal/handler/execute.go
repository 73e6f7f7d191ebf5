package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/service"
)

// ExecuteHandler handles ad-hoc script execution requests.
type ExecuteHandler struct {
	scripts *service.ScriptService
	logger  *slog.Logger
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(scripts *service.ScriptService, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		scripts: scripts,
		logger:  logger,
	}
}

// HandleExecute evaluates submitted code and returns the result.
//
// HTTP: POST /api/execute
// REQUEST BODY: {"code": "result = x + 1", "context": {"x": {"kind":"int","int":41}}}
//
// A script that fails to evaluate is still HTTP 200 — the failure is inside
// the ExecutionResult body. Only a malformed request (400) or a worker fault
// (500) produces an error status.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executor.ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.scripts.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("code execution failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
