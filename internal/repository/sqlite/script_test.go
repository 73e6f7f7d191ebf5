package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/script-worker/internal/apperror"
	"github.com/sakif/script-worker/internal/model"
	"github.com/sakif/script-worker/internal/repository"
)

// newTestDB creates a fresh in-memory database per test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestScript(t *testing.T, store *ScriptStore, name, code string) *model.Script {
	t.Helper()
	script := &model.Script{Name: name, Code: code}
	if err := store.Create(context.Background(), script); err != nil {
		t.Fatalf("failed to create test script: %v", err)
	}
	return script
}

func TestScriptCreate(t *testing.T) {
	store := NewScriptStore(newTestDB(t))

	script := &model.Script{
		Name: "answer",
		Code: "result = 42",
	}

	if err := store.Create(context.Background(), script); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if script.ID == "" {
		t.Error("Create() did not set script.ID")
	}
	if script.CreatedAt.IsZero() {
		t.Error("Create() did not set script.CreatedAt")
	}
	if script.UpdatedAt.IsZero() {
		t.Error("Create() did not set script.UpdatedAt")
	}
}

func TestScriptGetByID(t *testing.T) {
	store := NewScriptStore(newTestDB(t))
	original := createTestScript(t, store, "greet", "print('hi')")

	got, err := store.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Name != original.Name {
		t.Errorf("Name = %q, want %q", got.Name, original.Name)
	}
	if got.Code != original.Code {
		t.Errorf("Code = %q, want %q", got.Code, original.Code)
	}
}

func TestScriptGetByID_NotFound(t *testing.T) {
	store := NewScriptStore(newTestDB(t))

	_, err := store.GetByID(context.Background(), "does-not-exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestScriptList(t *testing.T) {
	store := NewScriptStore(newTestDB(t))
	createTestScript(t, store, "one", "result = 1")
	createTestScript(t, store, "two", "result = 2")
	createTestScript(t, store, "three", "result = 3")

	scripts, err := store.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(scripts) != 2 {
		t.Errorf("List() returned %d scripts, want 2 (limit)", len(scripts))
	}

	rest, err := store.List(context.Background(), repository.ListOptions{Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("List() with offset returned %d scripts, want 1", len(rest))
	}
}

func TestScriptUpdate(t *testing.T) {
	store := NewScriptStore(newTestDB(t))
	script := createTestScript(t, store, "before", "result = 1")

	script.Name = "after"
	script.Code = "result = 2"
	if err := store.Update(context.Background(), script); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetByID(context.Background(), script.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if got.Name != "after" || got.Code != "result = 2" {
		t.Errorf("Update() not persisted: got %+v", got)
	}
}

func TestScriptUpdate_NotFound(t *testing.T) {
	store := NewScriptStore(newTestDB(t))

	err := store.Update(context.Background(), &model.Script{ID: "ghost", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestScriptDelete(t *testing.T) {
	store := NewScriptStore(newTestDB(t))
	script := createTestScript(t, store, "doomed", "result = 0")

	if err := store.Delete(context.Background(), script.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := store.GetByID(context.Background(), script.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := store.Delete(context.Background(), script.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
