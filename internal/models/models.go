package models

import "time"

// User is a persisted account. The stored credential never appears in JSON.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
}

// UserWithTodos is the detail/list shape when include_todos=true. Todos is
// always present in JSON, even when empty.
type UserWithTodos struct {
	User
	Todos []Todo `json:"todos"`
}

// Todo is a persisted todo item owned by exactly one user.
type Todo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsDone      bool    `json:"is_done"`
	OwnerID     int64   `json:"owner_id"`
}

// UserCreate is the signup request body.
type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// TodoCreate is the create-todo request body.
type TodoCreate struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// TodoUpdate is the partial-update request body. Pointer fields distinguish
// an absent key from an explicit zero value; nil fields are left unchanged.
type TodoUpdate struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"is_done"`
}

// RecordEvent is published to Kafka after a committed write so that other
// replicas can invalidate their caches.
type RecordEvent struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"` // user, todo
	Action     string    `json:"action"` // created, updated, deleted
	RecordID   int64     `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
