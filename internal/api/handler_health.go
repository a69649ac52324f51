package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth handles GET /healthz.
func (h *Handler) GetHealth(c *gin.Context) {
	status := gin.H{
		"status":     "ok",
		"categories": h.catalog.Tree.Len(),
		"assets":     len(h.catalog.Assets),
	}
	if h.store == nil {
		c.JSON(http.StatusOK, status)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Error("database ping failed", "error", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, status)
}
