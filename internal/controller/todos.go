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

// Todos handles the /todos endpoints.
type Todos struct {
	store  *repository.Store
	cache  *cache.Cache
	events *events.Producer
	group  singleflight.Group
}

// NewTodos returns the /todos controller.
func NewTodos(store *repository.Store, c *cache.Cache, ev *events.Producer) *Todos {
	return &Todos{store: store, cache: c, events: ev}
}

// List handles GET /todos/ with skip/limit paging. The default page is
// cached as raw bytes and coalesced with singleflight.
func (h *Todos) List(c *gin.Context) {
	ctx := c.Request.Context()
	skip, limit := pageParams(c)

	cacheable := skip == 0 && limit == defaultLimit
	if cacheable {
		if b, ok := h.cache.GetRaw(ctx, cache.TodosListKey); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
		v, err, _ := h.group.Do(cache.TodosListKey, func() (interface{}, error) {
			// Background so one canceled request cannot fail the shared flight.
			todos, err := h.store.ListTodos(context.Background(), skip, limit)
			if err != nil {
				return nil, err
			}
			if todos == nil {
				todos = []models.Todo{}
			}
			return json.Marshal(todos)
		})
		if err != nil {
			logger.Error(ctx, "List todos failed", "error", err)
			c.JSON(http.StatusInternalServerError, detail("Internal server error"))
			return
		}
		b := v.([]byte)
		c.Data(http.StatusOK, "application/json", b)
		h.cache.SetRawAsync(cache.TodosListKey, b)
		return
	}

	todos, err := h.store.ListTodos(ctx, skip, limit)
	if err != nil {
		logger.Error(ctx, "List todos failed", "error", err)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// Get handles GET /todos/:id.
func (h *Todos) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, detail("Invalid todo id"))
		return
	}
	t, err := h.store.GetTodo(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, detail("Todo not found"))
		return
	}
	if err != nil {
		logger.Error(ctx, "Get todo failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update handles PATCH /todos/:id: applies only the fields present in the
// body and returns the updated record.
func (h *Todos) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, detail("Invalid todo id"))
		return
	}
	var body models.TodoUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, bindDetail(err))
		return
	}
	t, err := h.store.UpdateTodo(ctx, id, body)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, detail("Todo not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	h.cache.Invalidate(ctx, cache.TodosListKey)
	h.events.Publish(ctx, "todo", "updated", t.ID)
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /todos/:id. Deleting the same id twice yields 404
// the second time.
func (h *Todos) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, detail("Invalid todo id"))
		return
	}
	err := h.store.DeleteTodo(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, detail("Todo not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, detail("Internal server error"))
		return
	}
	h.cache.Invalidate(ctx, cache.TodosListKey)
	h.events.Publish(ctx, "todo", "deleted", id)
	c.JSON(http.StatusOK, detail("Todo deleted successfully"))
}
