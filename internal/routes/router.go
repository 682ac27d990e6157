package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"todo-service/internal/cache"
	"todo-service/internal/controller"
	"todo-service/internal/events"
	"todo-service/internal/middleware"
	"todo-service/internal/repository"
)

// Router assembles the gin engine over injected dependencies.
func Router(store *repository.Store, c *cache.Cache, ev *events.Producer, requestTimeout time.Duration) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if requestTimeout > 0 {
		router.Use(middleware.Timeout(requestTimeout))
	}

	// Probes for load balancers and K8s
	health := controller.NewHealth(store, c)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	users := controller.NewUsers(store, c, ev)
	todos := controller.NewTodos(store, c, ev)

	router.POST("/users/", users.Create)
	router.GET("/users/", users.List)
	router.GET("/users/:id", users.Get)
	router.POST("/users/:id/todos/", users.CreateTodo)

	router.GET("/todos/", todos.List)
	router.GET("/todos/:id", todos.Get)
	router.PATCH("/todos/:id", todos.Update)
	router.DELETE("/todos/:id", todos.Delete)

	return router
}
