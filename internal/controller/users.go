package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"todo-service/internal/cache"
	"todo-service/internal/events"
	"todo-service/internal/models"
	"todo-service/internal/repository"
	"todo-service/pkg/logger"
)

// Users handles the /users endpoints. Dependencies are injected by reference;
// the controller holds no global state.
type Users struct {
	store  *repository.Store
	cache  *cache.Cache
	events *events.Producer
	group  singleflight.Group
}

// NewUsers returns the /users controller.
func NewUsers(store *repository.Store, c *cache.Cache, ev *events.Producer) *Users {
	return &Users{store: store, cache: c, events: ev}
}

// Create handles POST /users/: signup if the email is unused.
func (h *Users) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var body models.UserCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, bindDetail(err))
		return
	}
	_, _, err := h.store.GetUserByEmail(ctx, body.Email, false)
	if err == nil {
		c.JSON(http.StatusBadRequest, detail("Email already registered"))
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logger.Error(ctx, "Email lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	u, err := h.store.CreateUser(ctx, body.Email, body.Password)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// the pre-check raced with a concurrent signup; the constraint wins
		c.JSON(http.StatusBadRequest, detail("Email already registered"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	h.cache.Invalidate(ctx, cache.UsersListKey)
	h.events.Publish(ctx, "user", "created", u.ID)
	c.JSON(http.StatusOK, u)
}

// List handles GET /users/ with skip/limit paging and optional
// include_todos. The default page without todos is cached as raw bytes and
// coalesced with singleflight.
func (h *Users) List(c *gin.Context) {
	ctx := c.Request.Context()
	skip, limit := pageParams(c)
	includeTodos := boolQuery(c, "include_todos")

	cacheable := skip == 0 && limit == defaultLimit && !includeTodos
	if cacheable {
		if b, ok := h.cache.GetRaw(ctx, cache.UsersListKey); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
		v, err, _ := h.group.Do(cache.UsersListKey, func() (interface{}, error) {
			// Background so one canceled request cannot fail the shared flight.
			users, _, err := h.store.ListUsers(context.Background(), skip, limit, false)
			if err != nil {
				return nil, err
			}
			if users == nil {
				users = []models.User{}
			}
			return json.Marshal(users)
		})
		if err != nil {
			logger.Error(ctx, "List users failed", "error", err)
			c.JSON(http.StatusInternalServerError, detail("Internal server error"))
			return
		}
		b := v.([]byte)
		c.Data(http.StatusOK, "application/json", b)
		h.cache.SetRawAsync(cache.UsersListKey, b)
		return
	}

	users, byOwner, err := h.store.ListUsers(ctx, skip, limit, includeTodos)
	if err != nil {
		logger.Error(ctx, "List users failed", "error", err)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	if !includeTodos {
		if users == nil {
			users = []models.User{}
		}
		c.JSON(http.StatusOK, users)
		return
	}
	out := make([]models.UserWithTodos, 0, len(users))
	for _, u := range users {
		out = append(out, withTodos(u, byOwner[u.ID]))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id with optional include_todos.
func (h *Users) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, detail("Invalid user id"))
		return
	}
	includeTodos := boolQuery(c, "include_todos")
	u, todos, err := h.store.GetUser(ctx, id, includeTodos)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, detail("User not found"))
		return
	}
	if err != nil {
		logger.Error(ctx, "Get user failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	if includeTodos {
		c.JSON(http.StatusOK, withTodos(*u, todos))
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateTodo handles POST /users/:id/todos/: creates a todo owned by the
// user. The owner must already exist; a storage failure after that check
// surfaces as 400, not as a leaked storage error.
func (h *Users) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, detail("Invalid user id"))
		return
	}
	if _, _, err := h.store.GetUser(ctx, ownerID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, detail("User not found"))
			return
		}
		logger.Error(ctx, "Owner lookup failed", "error", err, "id", ownerID)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	var body models.TodoCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, bindDetail(err))
		return
	}
	t, err := h.store.CreateTodoForUser(ctx, body, ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, detail("Could not create todo."))
		return
	}
	h.cache.Invalidate(ctx, cache.TodosListKey)
	h.events.Publish(ctx, "todo", "created", t.ID)
	c.JSON(http.StatusOK, t)
}

// withTodos builds the include_todos response shape; the todos key is always
// present, as an empty array when the user owns nothing.
func withTodos(u models.User, todos []models.Todo) models.UserWithTodos {
	if todos == nil {
		todos = []models.Todo{}
	}
	return models.UserWithTodos{User: u, Todos: todos}
}
