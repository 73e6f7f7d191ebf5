// Package sandbox implements executor.Executor with an embedded Starlark
// interpreter.
//
// WHY STARLARK AND NOT CONTAINERS?
// Starlark is a Python dialect designed for embedding untrusted code: the
// language has no ambient authority — no file I/O, no imports, no eval, no
// reflection into the host. Isolation therefore doesn't need a container
// runtime; it is the interpreter's scope, which we populate explicitly per
// call. What the script cannot name, it cannot touch.
//
// Each Execute call gets a completely fresh scope (built-ins, registered host
// callables, then the caller's context values), its own print buffer, and its
// own interpreter thread. Nothing mutable is shared between calls, so
// concurrent evaluations cannot observe each other.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/wire"
)

// ResultBinding is the well-known global a script assigns to communicate its
// return value, e.g. `result = x + 1`. A script that never assigns it
// succeeds with a null result.
const ResultBinding = "result"

// Executor evaluates scripts in per-call isolated scopes.
type Executor struct {
	config   Config
	logger   *slog.Logger
	registry *executor.Registry
	pool     *pool
}

// Compile-time check that *Executor satisfies the executor interface.
var _ executor.Executor = (*Executor)(nil)

// New creates a sandboxed Executor. The registry is treated as read-only from
// here on — register all host callables before the first Execute call.
func New(cfg Config, registry *executor.Registry, logger *slog.Logger) *Executor {
	if registry == nil {
		registry = executor.NewRegistry()
	}
	return &Executor{
		config:   cfg,
		logger:   logger,
		registry: registry,
		pool:     newPool(cfg.PoolSize),
	}
}

// fileOptions enables the imperative dialect features (while, set, top-level
// if/for, global reassignment, recursion) so submitted snippets read like
// ordinary Python. Loads stay disabled — that is resolver-level, not here.
func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Execute evaluates req.Code in a fresh scope and returns its outcome.
//
// Script failures of every kind — syntax errors, runtime faults, use of a
// denied capability, step-budget exhaustion, timeout — come back as a result
// with Success=false. A non-nil error only means the call never ran (slot
// wait canceled).
func (e *Executor) Execute(ctx context.Context, req executor.ExecutionRequest) (res *executor.ExecutionResult, err error) {
	start := time.Now()

	// InternalError guard: a bug in the codec, a conversion, or a host
	// callable must surface as a failed result — never crash the worker or
	// poison its pool slot.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during script evaluation", slog.Any("panic", r))
			res = executor.Failure(fmt.Sprintf("internal error: %v", r), time.Since(start).Milliseconds())
			err = nil
		}
	}()

	if acquireErr := e.pool.acquire(ctx); acquireErr != nil {
		return nil, fmt.Errorf("waiting for worker slot: %w", acquireErr)
	}
	defer e.pool.release()

	execCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	scope := e.buildScope(req.Context)

	// Output capture is an explicit per-call sink, not a process-wide
	// redirect: the thread's Print hook writes into this builder and nowhere
	// else, so concurrent calls cannot interleave their output.
	var output strings.Builder
	thread := &starlark.Thread{
		Name: "sandbox",
		Print: func(_ *starlark.Thread, msg string) {
			output.WriteString(msg)
			output.WriteByte('\n')
		},
		// Load is deliberately left nil — load() statements fail, which is
		// our denial of dynamic module import.
	}
	if e.config.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(e.config.MaxSteps)
	}

	// Best-effort abort: when the deadline passes, ask the interpreter to
	// stop at its next safe point. The step budget above backs this up
	// deterministically.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-execCtx.Done():
			thread.Cancel(execCtx.Err().Error())
		case <-watchDone:
		}
	}()

	e.logger.Debug("evaluating script",
		slog.Int("codeBytes", len(req.Code)),
		slog.Int("contextKeys", len(req.Context)),
	)

	globals, execErr := starlark.ExecFileOptions(fileOptions(), thread, "script.star", req.Code, scope)
	elapsed := time.Since(start).Milliseconds()
	if execErr != nil {
		return executor.Failure(messageOf(execErr), elapsed), nil
	}

	result := wire.Null()
	if v, ok := globals[ResultBinding]; ok {
		result = wire.Encode(fromStarlark(v))
	}

	return &executor.ExecutionResult{
		Success:    true,
		Result:     result,
		Logs:       []string{output.String()},
		DurationMs: elapsed,
	}, nil
}

// Health reports a fixed healthy indicator plus the version tag.
func (e *Executor) Health() (bool, string) {
	return true, Version
}

// buildScope assembles the per-call namespace: allow-listed built-ins first,
// then registered host callables, then the caller's context values. Later
// entries win, so a context key shadows a built-in or callable of the same
// name for this call only.
func (e *Executor) buildScope(reqContext map[string]wire.Value) starlark.StringDict {
	scope := builtins()

	for _, name := range e.registry.Names() {
		fn, _ := e.registry.Get(name)
		scope[name] = hostBuiltin(name, fn)
	}

	for key, val := range wire.DecodeMap(reqContext) {
		scope[key] = toStarlark(val)
	}

	return scope
}

// hostBuiltin wraps a registered Callable as a Starlark builtin. Arguments
// cross the boundary as native values; the return value is converted back so
// whatever the host computes can flow onward through the script.
func hostBuiltin(name string, fn executor.Callable) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: host functions take positional arguments only", b.Name())
		}
		goArgs := make([]any, len(args))
		for i, a := range args {
			goArgs[i] = fromStarlark(a)
		}
		out, err := fn(goArgs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return toStarlark(out), nil
	})
}

// messageOf extracts a concise description from an evaluation error. Eval
// errors know their message without the backtrace noise; syntax and resolve
// errors already include a position.
func messageOf(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Error()
	}
	return err.Error()
}
