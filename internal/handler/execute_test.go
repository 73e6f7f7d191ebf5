package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/script-worker/internal/apperror"
	"github.com/sakif/script-worker/internal/executor"
	"github.com/sakif/script-worker/internal/handler"
	"github.com/sakif/script-worker/internal/model"
	"github.com/sakif/script-worker/internal/repository"
	"github.com/sakif/script-worker/internal/service"
	"github.com/sakif/script-worker/internal/wire"
)

// StubExecutor returns a canned result and captures the last request,
// so handler tests run without the scripting engine.
type StubExecutor struct {
	CapturedReq executor.ExecutionRequest
	ReturnRes   *executor.ExecutionResult
	ReturnErr   error
}

func (s *StubExecutor) Execute(ctx context.Context, req executor.ExecutionRequest) (*executor.ExecutionResult, error) {
	s.CapturedReq = req
	if s.ReturnErr != nil {
		return nil, s.ReturnErr
	}
	return s.ReturnRes, nil
}

func (s *StubExecutor) Health() (bool, string) { return true, "1.0.0" }

// memScripts is a minimal in-memory ScriptRepository.
type memScripts struct {
	byID map[string]model.Script
}

func newMemScripts() *memScripts {
	return &memScripts{byID: make(map[string]model.Script)}
}

func (m *memScripts) Create(_ context.Context, s *model.Script) error {
	s.ID = "s" + string(rune('0'+len(m.byID)))
	m.byID[s.ID] = *s
	return nil
}

func (m *memScripts) GetByID(_ context.Context, id string) (*model.Script, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("script", id)
	}
	return &s, nil
}

func (m *memScripts) List(_ context.Context, _ repository.ListOptions) ([]model.Script, error) {
	out := make([]model.Script, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out, nil
}

func (m *memScripts) Update(_ context.Context, s *model.Script) error {
	if _, ok := m.byID[s.ID]; !ok {
		return apperror.NotFound("script", s.ID)
	}
	m.byID[s.ID] = *s
	return nil
}

func (m *memScripts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("script", id)
	}
	delete(m.byID, id)
	return nil
}

// memExecutions discards records; handler tests don't assert on audit rows.
type memExecutions struct{}

func (memExecutions) Create(_ context.Context, e *model.Execution) error { return nil }
func (memExecutions) List(_ context.Context, _ repository.ListOptions) ([]model.Execution, error) {
	return []model.Execution{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(exec executor.Executor) (*service.ScriptService, *memScripts) {
	scripts := newMemScripts()
	svc := service.NewScriptService(scripts, memExecutions{}, exec, testLogger())
	return svc, scripts
}

func TestExecuteHandler_HandleExecute(t *testing.T) {
	t.Run("valid execution", func(t *testing.T) {
		stub := &StubExecutor{
			ReturnRes: &executor.ExecutionResult{
				Success:    true,
				Result:     wire.Int(42),
				Logs:       []string{"hi\n"},
				DurationMs: 3,
			},
		}
		svc, _ := newTestService(stub)
		h := handler.NewExecuteHandler(svc, testLogger())

		reqBody := `{"code":"result = x + 1","context":{"x":{"kind":"int","int":41}}}`
		req := httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res executor.ExecutionResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.True(t, res.Success)
		assert.Equal(t, wire.KindInt, res.Result.Kind)
		assert.Equal(t, int64(42), res.Result.Int)
		assert.Equal(t, []string{"hi\n"}, res.Logs)

		assert.Equal(t, "result = x + 1", stub.CapturedReq.Code)
		assert.Equal(t, wire.Int(41), stub.CapturedReq.Context["x"])
	})

	t.Run("failed evaluation is still 200", func(t *testing.T) {
		stub := &StubExecutor{
			ReturnRes: &executor.ExecutionResult{
				Success: false,
				Error:   "division by zero",
			},
		}
		svc, _ := newTestService(stub)
		h := handler.NewExecuteHandler(svc, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":"result = 1 / 0"}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res executor.ExecutionResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "division by zero")
	})

	t.Run("invalid request body", func(t *testing.T) {
		svc, _ := newTestService(&StubExecutor{})
		h := handler.NewExecuteHandler(svc, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"invalid_json":`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty code", func(t *testing.T) {
		svc, _ := newTestService(&StubExecutor{})
		h := handler.NewExecuteHandler(svc, testLogger())

		req := httptest.NewRequest(http.MethodPost, "/api/execute",
			bytes.NewBufferString(`{"code":""}`))
		rr := httptest.NewRecorder()

		h.HandleExecute(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "validation_error", body.Error)
	})
}

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler(&StubExecutor{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()

	h.HandleHealth(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var res handler.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Healthy)
	assert.Equal(t, "1.0.0", res.Version)
}
