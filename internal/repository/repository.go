// Package repository declares the storage interfaces consumed by the service
// layer. Concrete implementations live in subpackages (currently sqlite).
package repository

import (
	"context"

	"github.com/sakif/script-worker/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type ScriptRepository interface {
	Create(ctx context.Context, script *model.Script) error
	GetByID(ctx context.Context, id string) (*model.Script, error)
	List(ctx context.Context, opts ListOptions) ([]model.Script, error)
	Update(ctx context.Context, script *model.Script) error
	Delete(ctx context.Context, id string) error
}

type ExecutionRepository interface {
	Create(ctx context.Context, execution *model.Execution) error
	List(ctx context.Context, opts ListOptions) ([]model.Execution, error)
}
