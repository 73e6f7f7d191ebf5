// Package service contains the business logic layer: validation, the
// execute/record orchestration, and the rules for stored scripts.
//
// Handlers stay HTTP-only, repositories stay SQL-only; everything between
// lives here. The service depends on the repository and executor interfaces,
// never on their concrete implementations — tests inject mocks for both.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/script-worker/internal/apperror"
	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/model"
	"github.com/sakif/script-worker/internal/repository"
	"github.com/sakif/script-worker/internal/wire"
)

const (
	MaxScriptNameLength = 100
	MaxCodeLength       = 100000 // ~100KB of code
	DefaultListLimit    = 20
	MaxListLimit        = 100
)

// ScriptService owns stored scripts and runs code through the executor,
// recording an execution row for every run.
type ScriptService struct {
	scripts    repository.ScriptRepository
	executions repository.ExecutionRepository
	exec       executor.Executor
	logger     *slog.Logger
}

// NewScriptService creates a ScriptService. All dependencies are injected.
func NewScriptService(
	scripts repository.ScriptRepository,
	executions repository.ExecutionRepository,
	exec executor.Executor,
	logger *slog.Logger,
) *ScriptService {
	return &ScriptService{
		scripts:    scripts,
		executions: executions,
		exec:       exec,
		logger:     logger,
	}
}

// Execute runs an ad-hoc submission and records its outcome.
//
// The executor never reports script failures as Go errors, so the only error
// path here is the call not running at all (canceled while waiting for a
// worker slot, or an executor fault).
func (s *ScriptService) Execute(ctx context.Context, req executor.ExecutionRequest) (*executor.ExecutionResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}
	if len(req.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	res, err := s.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("executing code: %w", err)
	}

	s.record(ctx, "", res)
	return res, nil
}

// Run executes a stored script with the given context values and records the
// outcome against the script's ID.
func (s *ScriptService) Run(ctx context.Context, id string, execContext map[string]wire.Value) (*executor.ExecutionResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "script ID is required")
	}

	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.exec.Execute(ctx, executor.ExecutionRequest{
		Code:    script.Code,
		Context: execContext,
	})
	if err != nil {
		return nil, fmt.Errorf("running script %s: %w", id, err)
	}

	s.record(ctx, id, res)
	return res, nil
}

// record persists an execution row. A storage failure is logged but never
// fails the call — the caller already has their result, and losing one audit
// row is better than turning a successful evaluation into an error.
func (s *ScriptService) record(ctx context.Context, scriptID string, res *executor.ExecutionResult) {
	execution := &model.Execution{
		ScriptID:   scriptID,
		Success:    res.Success,
		Error:      res.Error,
		DurationMs: res.DurationMs,
	}
	if err := s.executions.Create(ctx, execution); err != nil {
		s.logger.Error("failed to record execution",
			slog.String("scriptId", scriptID),
			slog.String("error", err.Error()),
		)
	}
}

// ListExecutions returns recent execution records, newest first.
func (s *ScriptService) ListExecutions(ctx context.Context, limit, offset int) ([]model.Execution, error) {
	limit, offset = clampPage(limit, offset)

	executions, err := s.executions.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list executions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing executions: %w", err)
	}
	return executions, nil
}

// Create validates and saves a new script.
func (s *ScriptService) Create(ctx context.Context, name, code, description string) (*model.Script, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "script name is required")
	}
	if len(name) > MaxScriptNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("script name must be %d characters or less", MaxScriptNameLength))
	}
	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	script := &model.Script{
		Name:        name,
		Code:        code,
		Description: strings.TrimSpace(description),
	}

	if err := s.scripts.Create(ctx, script); err != nil {
		s.logger.Error("failed to create script",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating script: %w", err)
	}

	s.logger.Info("script created",
		slog.String("id", script.ID),
		slog.String("name", script.Name),
	)

	return script, nil
}

// GetByID retrieves a script by its ID.
func (s *ScriptService) GetByID(ctx context.Context, id string) (*model.Script, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "script ID is required")
	}

	return s.scripts.GetByID(ctx, id)
}

// List retrieves scripts with pagination.
func (s *ScriptService) List(ctx context.Context, limit, offset int) ([]model.Script, error) {
	limit, offset = clampPage(limit, offset)

	scripts, err := s.scripts.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list scripts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing scripts: %w", err)
	}

	return scripts, nil
}

// Update modifies an existing script. Empty name means "keep the current
// name"; code is always replaced (clearing it is legitimate).
func (s *ScriptService) Update(ctx context.Context, id, name, code, description string) (*model.Script, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "script ID is required")
	}

	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxScriptNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("script name must be %d characters or less", MaxScriptNameLength))
		}
		script.Name = name
	}

	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	script.Code = code
	script.Description = strings.TrimSpace(description)

	if err := s.scripts.Update(ctx, script); err != nil {
		return nil, err
	}

	return script, nil
}

// Delete removes a script. Past execution records for it are kept.
func (s *ScriptService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "script ID is required")
	}

	if err := s.scripts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("script deleted", slog.String("id", id))
	return nil
}

// clampPage enforces sane pagination bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
