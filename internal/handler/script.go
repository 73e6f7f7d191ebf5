package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/script-worker/internal/service"
	"github.com/sakif/script-worker/internal/wire"
)

// ScriptHandler manages CRUD for stored scripts and runs them.
//
// Each handler struct owns one area: ExecuteHandler does ad-hoc code,
// ScriptHandler does the stored-script lifecycle. Validation lives in the
// service; this layer only translates HTTP to service calls and back.
type ScriptHandler struct {
	scripts *service.ScriptService
	logger  *slog.Logger
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(scripts *service.ScriptService, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{
		scripts: scripts,
		logger:  logger,
	}
}

// scriptRequest is the create/update body.
type scriptRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// runRequest is the body for running a stored script.
type runRequest struct {
	Context map[string]wire.Value `json:"context,omitempty"`
}

// HandleCreate saves a new script.
//
// HTTP: POST /api/scripts
// REQUEST BODY: {"name": "daily report", "code": "result = total()", "description": "..."}
func (h *ScriptHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid script JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	script, err := h.scripts.Create(r.Context(), req.Name, req.Code, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, script)
}

// HandleGet returns a single script.
//
// HTTP: GET /api/scripts/{id}
func (h *ScriptHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	script, err := h.scripts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, script)
}

// HandleList returns stored scripts, newest first.
//
// HTTP: GET /api/scripts?limit=20&offset=0
func (h *ScriptHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	scripts, err := h.scripts.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scripts)
}

// HandleUpdate modifies an existing script.
//
// HTTP: PUT /api/scripts/{id}
func (h *ScriptHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid script JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	script, err := h.scripts.Update(r.Context(), r.PathValue("id"), req.Name, req.Code, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, script)
}

// HandleDelete removes a script. Its execution history is kept.
//
// HTTP: DELETE /api/scripts/{id}
func (h *ScriptHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.scripts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRun executes a stored script with caller-supplied context values.
//
// HTTP: POST /api/scripts/{id}/run
// REQUEST BODY: {"context": {"x": {"kind":"int","int":41}}} (body optional)
//
// Like /api/execute, an evaluation failure is HTTP 200 with success=false.
func (h *ScriptHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("invalid run JSON", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "invalid JSON body",
			})
			return
		}
	}

	result, err := h.scripts.Run(r.Context(), r.PathValue("id"), req.Context)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleListExecutions returns recent execution records, newest first.
//
// HTTP: GET /api/executions?limit=20&offset=0
func (h *ScriptHandler) HandleListExecutions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	executions, err := h.scripts.ListExecutions(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, executions)
}

// pageParams parses limit/offset query parameters. Missing or malformed
// values come back as zero; the service clamps to its defaults.
func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
