package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todo-service/internal/models"
	"todo-service/pkg/logger"
	"todo-service/pkg/password"
)

const (
	sqlInsertUser = `
		INSERT INTO users (email, hashed_password, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, email, hashed_password, is_active`

	sqlGetUserByID = `
		SELECT id, email, hashed_password, is_active
		FROM   users
		WHERE  id = $1
		LIMIT  1`

	sqlGetUserByEmail = `
		SELECT id, email, hashed_password, is_active
		FROM   users
		WHERE  email = $1
		LIMIT  1`

	sqlListUsers = `
		SELECT id, email, hashed_password, is_active
		FROM   users
		ORDER  BY id
		LIMIT  $1 OFFSET $2`
)

// CreateUser derives a bcrypt credential, inserts the user in a transaction
// and returns the persisted record with its assigned id. A unique-constraint
// violation maps to ErrDuplicateEmail so the caller's existence pre-check
// cannot be raced into a second record.
func (s *Store) CreateUser(ctx context.Context, email, plain string) (*models.User, error) {
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	u := &models.User{}
	err = s.execTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, sqlInsertUser, email, hashed)
		return row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		logger.Error(ctx, "Create user failed", "error", err)
		return nil, err
	}
	return u, nil
}

// GetUser returns the user by primary key, or ErrNotFound. With includeTodos
// the owned todos are fetched in one follow-up batched query.
func (s *Store) GetUser(ctx context.Context, id int64, includeTodos bool) (*models.User, []models.Todo, error) {
	return s.getUser(ctx, sqlGetUserByID, id, includeTodos)
}

// GetUserByEmail is GetUser keyed by the unique email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string, includeTodos bool) (*models.User, []models.Todo, error) {
	return s.getUser(ctx, sqlGetUserByEmail, email, includeTodos)
}

func (s *Store) getUser(ctx context.Context, query string, key any, includeTodos bool) (*models.User, []models.Todo, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, query, key).
		Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !includeTodos {
		return u, nil, nil
	}
	byOwner, err := s.todosForOwners(ctx, []int64{u.ID})
	if err != nil {
		return nil, nil, err
	}
	return u, byOwner[u.ID], nil
}

// ListUsers returns a page of users ordered by id ascending. With
// includeTodos the todos for the whole page come from a single IN-list query
// instead of one query per user.
func (s *Store) ListUsers(ctx context.Context, skip, limit int, includeTodos bool) ([]models.User, map[int64][]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, sqlListUsers, limit, skip)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive); err != nil {
			return nil, nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if !includeTodos {
		return users, nil, nil
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	byOwner, err := s.todosForOwners(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return users, byOwner, nil
}

// todosForOwners fetches the todos for a set of owners in one round trip.
func (s *Store) todosForOwners(ctx context.Context, ownerIDs []int64) (map[int64][]models.Todo, error) {
	out := make(map[int64][]models.Todo, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	ph := make([]string, len(ownerIDs))
	args := make([]any, len(ownerIDs))
	for i, id := range ownerIDs {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT id, title, description, is_done, owner_id FROM todos WHERE owner_id IN (` +
		strings.Join(ph, ",") + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID); err != nil {
			return nil, err
		}
		out[t.OwnerID] = append(out[t.OwnerID], t)
	}
	return out, rows.Err()
}
