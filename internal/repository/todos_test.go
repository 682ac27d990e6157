package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"todo-service/internal/models"
	"todo-service/internal/repository"
)

func TestCreateTodoForUser(t *testing.T) {
	s := newTestStore(t)

	owner := mustCreateUser(t, s, "todo-owner@x.com")
	todo := mustCreateTodo(t, s, owner.ID, "Buy milk", strPtr("2 liters"))

	if todo.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if todo.OwnerID != owner.ID {
		t.Fatalf("owner_id %d, want %d", todo.OwnerID, owner.ID)
	}
	if todo.IsDone {
		t.Fatal("new todo should not be done")
	}
	if todo.Description == nil || *todo.Description != "2 liters" {
		t.Fatalf("description lost: %v", todo.Description)
	}
}

func TestCreateTodoForUser_MissingOwner(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateTodoForUser(context.Background(), models.TodoCreate{Title: "orphan"}, 999999)
	if !errors.Is(err, repository.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed on FK violation, got %v", err)
	}
}

func TestCreateTodo_NilDescription(t *testing.T) {
	s := newTestStore(t)

	owner := mustCreateUser(t, s, "nil-desc@x.com")
	todo := mustCreateTodo(t, s, owner.ID, "no description", nil)
	if todo.Description != nil {
		t.Fatalf("expected nil description, got %q", *todo.Description)
	}

	fetched, err := s.GetTodo(context.Background(), todo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Description != nil {
		t.Fatalf("expected nil description after read, got %q", *fetched.Description)
	}
}

func TestGetTodo_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTodo(context.Background(), 999999)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTodos_PagingAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "list-todos@x.com")
	for i := 0; i < 5; i++ {
		mustCreateTodo(t, s, owner.ID, fmt.Sprintf("todo %d", i), nil)
	}

	page, err := s.ListTodos(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(page))
	}
	if page[0].Title != "todo 2" {
		t.Fatalf("skip not applied, first is %q", page[0].Title)
	}
	if page[0].ID >= page[1].ID {
		t.Fatalf("expected ascending id order: %d, %d", page[0].ID, page[1].ID)
	}
}

func TestUpdateTodo_PartialRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "patch@x.com")
	created := mustCreateTodo(t, s, owner.ID, "T", strPtr("D"))

	// Flip is_done only; title and description must survive untouched.
	updated, err := s.UpdateTodo(ctx, created.ID, models.TodoUpdate{IsDone: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsDone {
		t.Fatal("is_done not applied")
	}
	if updated.Title != "T" {
		t.Fatalf("title changed: %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "D" {
		t.Fatalf("description changed: %v", updated.Description)
	}

	// And the other way around: retitle without touching is_done.
	updated, err = s.UpdateTodo(ctx, created.ID, models.TodoUpdate{Title: strPtr("T2")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "T2" {
		t.Fatalf("title not applied: %q", updated.Title)
	}
	if !updated.IsDone {
		t.Fatal("is_done reset by unrelated update")
	}
}

func TestUpdateTodo_EmptyPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "empty-patch@x.com")
	created := mustCreateTodo(t, s, owner.ID, "unchanged", nil)

	same, err := s.UpdateTodo(ctx, created.ID, models.TodoUpdate{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if same.Title != "unchanged" || same.IsDone {
		t.Fatalf("record mutated by empty patch: %+v", same)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTodo(context.Background(), 999999, models.TodoUpdate{Title: strPtr("x")})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTodo_Twice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "delete@x.com")
	created := mustCreateTodo(t, s, owner.ID, "to delete", nil)

	if err := s.DeleteTodo(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTodo(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTodo(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
