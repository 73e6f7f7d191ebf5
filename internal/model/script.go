// Package model defines the data structures persisted by the worker.
package model

import "time"

// Script is a saved, named piece of code that can be executed on demand via
// POST /api/scripts/{id}/run. Saving a script does not validate or compile
// it — errors surface at execution time like any ad-hoc submission.
type Script struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Execution is the audit record of one evaluation, ad-hoc or stored.
//
// Only the outcome is recorded — not the submitted code or context values,
// which may contain data the caller never intended to persist.
type Execution struct {
	ID string `json:"id"`
	// ScriptID is empty for ad-hoc submissions via /api/execute.
	ScriptID   string    `json:"scriptId,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}
