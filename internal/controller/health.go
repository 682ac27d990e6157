package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-service/internal/cache"
	"todo-service/internal/repository"
)

// Health answers liveness and readiness probes.
type Health struct {
	store *repository.Store
	cache *cache.Cache
}

// NewHealth returns the probe controller.
func NewHealth(store *repository.Store, c *cache.Cache) *Health {
	return &Health{store: store, cache: c}
}

// Live returns 200 if the process is alive. Used by load balancers.
func (h *Health) Live(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the database (and the cache, when enabled) are
// reachable.
func (h *Health) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.DB().PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
		return
	}
	if err := h.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "cache ping failed"})
		return
	}
	c.String(http.StatusOK, "OK")
}
