// Package executor defines the contract between the HTTP layer and the code
// execution engine, plus the registry of host functions exposed to scripts.
//
// The engine itself lives in a subpackage (executor/sandbox) so the rest of
// the application depends only on this interface — handlers and services
// never import the scripting engine directly.
package executor

import (
	"context"

	"github.com/sakif/script-worker/internal/wire"
)

// ExecutionRequest represents a request to evaluate a script.
type ExecutionRequest struct {
	// Code is the script source text.
	Code string `json:"code"`

	// Context holds named input values bound into the script's scope before
	// evaluation. Keys shadow built-ins and registered callables of the same
	// name for this call only.
	Context map[string]wire.Value `json:"context,omitempty"`
}

// ExecutionResult is the outcome of one evaluation.
//
// Success and Error are mutually exclusive: a successful call carries Result
// (the script's `result` binding, null variant if never assigned) and Logs
// (captured print output, one entry per call); a failed call carries only a
// human-readable Error. Evaluation failures are results, not Go errors — the
// worker itself stays healthy.
type ExecutionResult struct {
	Success    bool       `json:"success"`
	Result     wire.Value `json:"result"`
	Logs       []string   `json:"logs,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMs int64      `json:"durationMs"`
}

// Failure builds a failed result carrying the given message.
func Failure(msg string, durationMs int64) *ExecutionResult {
	return &ExecutionResult{Success: false, Error: msg, DurationMs: durationMs}
}

// Executor is the core interface for evaluating scripts in an isolated scope.
//
// Contract:
//   - Implementations must be safe for concurrent use; all per-call state
//     (scope, output buffer, decoded context) is call-local.
//   - ctx cancellation aborts the evaluation (best effort) and the wait for a
//     free worker slot (always).
//   - A non-nil error is reserved for faults in the executor itself; script
//     failures of any kind come back as Success=false.
type Executor interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)

	// Health is a trivial liveness probe: a fixed healthy indicator and a
	// version tag. No failure modes.
	Health() (bool, string)
}
