package repository_test

import (
	"context"
	"testing"

	"todo-service/internal/config"
	"todo-service/internal/database"
	"todo-service/internal/models"
	"todo-service/internal/repository"
)

// newTestStore opens an in-memory sqlite database with the real schema.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()

	cfg := &config.Config{DatabaseURL: ":memory:", DBPoolSize: 1}
	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.EnsureSchema(ctx, db, cfg.DatabaseURL); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return repository.New(db)
}

func mustCreateUser(t *testing.T, s *repository.Store, email string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), email, "testpassword")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func mustCreateTodo(t *testing.T, s *repository.Store, ownerID int64, title string, description *string) *models.Todo {
	t.Helper()
	todo, err := s.CreateTodoForUser(context.Background(), models.TodoCreate{
		Title:       title,
		Description: description,
	}, ownerID)
	if err != nil {
		t.Fatalf("create todo %s: %v", title, err)
	}
	return todo
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestEnsureSchemaIdempotent(t *testing.T) {
	cfg := &config.Config{DatabaseURL: ":memory:", DBPoolSize: 1}
	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := database.EnsureSchema(ctx, db, cfg.DatabaseURL); err != nil {
			t.Fatalf("ensure schema (pass %d): %v", i+1, err)
		}
	}
}
