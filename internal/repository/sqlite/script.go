package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/script-worker/internal/apperror"
	"github.com/sakif/script-worker/internal/model"
	"github.com/sakif/script-worker/internal/repository"
)

// ScriptStore implements repository.ScriptRepository on top of DB.
type ScriptStore struct {
	db *DB
}

var _ repository.ScriptRepository = (*ScriptStore)(nil)

// NewScriptStore creates a script repository backed by db.
func NewScriptStore(db *DB) *ScriptStore {
	return &ScriptStore{db: db}
}

// Create inserts a new script. The generated xid and timestamps are written
// back into the caller's struct.
func (s *ScriptStore) Create(ctx context.Context, script *model.Script) error {
	script.ID = xid.New().String()

	now := time.Now()
	script.CreatedAt = now
	script.UpdatedAt = now

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO scripts (id, name, code, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		script.ID,
		script.Name,
		script.Code,
		script.Description,
		script.CreatedAt,
		script.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating script: %w", err)
	}

	return nil
}

// GetByID retrieves a single script, or apperror.NotFound.
func (s *ScriptStore) GetByID(ctx context.Context, id string) (*model.Script, error) {
	var script model.Script

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, code, description, created_at, updated_at
		 FROM scripts
		 WHERE id = ?`,
		id,
	).Scan(
		&script.ID,
		&script.Name,
		&script.Code,
		&script.Description,
		&script.CreatedAt,
		&script.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("script", id)
		}
		return nil, fmt.Errorf("sqlite: getting script %s: %w", id, err)
	}

	return &script, nil
}

// List retrieves scripts newest first, with pagination.
func (s *ScriptStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Script, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, code, description, created_at, updated_at
		 FROM scripts
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing scripts: %w", err)
	}
	defer rows.Close()

	scripts := []model.Script{}
	for rows.Next() {
		var s model.Script
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning script row: %w", err)
		}
		scripts = append(scripts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating script rows: %w", err)
	}

	return scripts, nil
}

// Update rewrites a script's mutable fields and bumps updated_at.
func (s *ScriptStore) Update(ctx context.Context, script *model.Script) error {
	script.UpdatedAt = time.Now()

	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE scripts
		 SET name = ?, code = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		script.Name,
		script.Code,
		script.Description,
		script.UpdatedAt,
		script.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating script %s: %w", script.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of script %s: %w", script.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("script", script.ID)
	}

	return nil
}

// Delete removes a script, or returns apperror.NotFound.
func (s *ScriptStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM scripts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting script %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of script %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("script", id)
	}

	return nil
}
