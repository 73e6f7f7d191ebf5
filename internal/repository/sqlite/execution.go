package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/script-worker/internal/model"
	"github.com/sakif/script-worker/internal/repository"
)

// ExecutionStore implements repository.ExecutionRepository on top of DB.
type ExecutionStore struct {
	db *DB
}

var _ repository.ExecutionRepository = (*ExecutionStore)(nil)

// NewExecutionStore creates an execution repository backed by db.
func NewExecutionStore(db *DB) *ExecutionStore {
	return &ExecutionStore{db: db}
}

// Create inserts an execution record. ID and timestamp are generated here
// and written back into the caller's struct.
func (e *ExecutionStore) Create(ctx context.Context, execution *model.Execution) error {
	execution.ID = xid.New().String()
	execution.CreatedAt = time.Now()

	_, err := e.db.conn.ExecContext(ctx,
		`INSERT INTO executions (id, script_id, success, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		execution.ID,
		execution.ScriptID,
		execution.Success,
		execution.Error,
		execution.DurationMs,
		execution.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating execution record: %w", err)
	}

	return nil
}

// List retrieves execution records newest first, with pagination.
func (e *ExecutionStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Execution, error) {
	rows, err := e.db.conn.QueryContext(ctx,
		`SELECT id, script_id, success, error, duration_ms, created_at
		 FROM executions
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing executions: %w", err)
	}
	defer rows.Close()

	executions := []model.Execution{}
	for rows.Next() {
		var e model.Execution
		if err := rows.Scan(&e.ID, &e.ScriptID, &e.Success, &e.Error, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning execution row: %w", err)
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating execution rows: %w", err)
	}

	return executions, nil
}
