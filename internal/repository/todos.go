package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todo-service/internal/models"
	"todo-service/pkg/logger"
)

const (
	sqlInsertTodo = `
		INSERT INTO todos (title, description, is_done, owner_id)
		VALUES ($1, $2, FALSE, $3)
		RETURNING id, title, description, is_done, owner_id`

	sqlGetTodoByID = `
		SELECT id, title, description, is_done, owner_id
		FROM   todos
		WHERE  id = $1
		LIMIT  1`

	sqlListTodos = `
		SELECT id, title, description, is_done, owner_id
		FROM   todos
		ORDER  BY id
		LIMIT  $1 OFFSET $2`

	sqlDeleteTodo = `
		DELETE FROM todos WHERE id = $1`
)

// ListTodos returns a page of todos ordered by id ascending.
func (s *Store) ListTodos(ctx context.Context, skip, limit int) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, sqlListTodos, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// GetTodo returns the todo by primary key, or ErrNotFound.
func (s *Store) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	t := &models.Todo{}
	err := s.db.QueryRowContext(ctx, sqlGetTodoByID, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTodoForUser inserts a todo owned by ownerID inside a transaction.
// Owner existence is the caller's concern; any storage failure rolls back and
// surfaces as ErrCreateFailed with the cause logged, never returned.
func (s *Store) CreateTodoForUser(ctx context.Context, in models.TodoCreate, ownerID int64) (*models.Todo, error) {
	t := &models.Todo{}
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, sqlInsertTodo, in.Title, in.Description, ownerID)
		return row.Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID)
	})
	if err != nil {
		logger.Error(ctx, "Create todo failed", "error", err, "owner_id", ownerID)
		return nil, ErrCreateFailed
	}
	return t, nil
}

// UpdateTodo applies only the fields present in the request. Absent fields
// keep their stored values. Returns ErrNotFound when the todo does not exist.
func (s *Store) UpdateTodo(ctx context.Context, id int64, in models.TodoUpdate) (*models.Todo, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	argIdx := 1

	if in.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.IsDone != nil {
		sets = append(sets, fmt.Sprintf("is_done = $%d", argIdx))
		args = append(args, *in.IsDone)
		argIdx++
	}
	if len(sets) == 0 {
		return s.GetTodo(ctx, id)
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE todos
		SET    %s
		WHERE  id = $%d
		RETURNING id, title, description, is_done, owner_id`,
		strings.Join(sets, ", "), argIdx)

	t := &models.Todo{}
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, query, args...)
		return row.Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Update todo failed", "error", err, "id", id)
		return nil, err
	}
	return t, nil
}

// DeleteTodo removes the todo and commits. A second delete of the same id
// returns ErrNotFound.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	var affected int64
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, sqlDeleteTodo, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		logger.Error(ctx, "Delete todo failed", "error", err, "id", id)
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
