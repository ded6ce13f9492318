package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"spacify/internal/http/middleware"
	"spacify/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Parking backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// GET /api/db-check
func (h *Handler) DBCheck(c *gin.Context) {
	if len(h.Stores) == 0 {
		ok(c, http.StatusOK, gin.H{"message": "no external stores configured", "stores": gin.H{}})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Stores))
	for name := range h.Stores {
		names = append(names, name)
	}
	sort.Strings(names)

	result := gin.H{}
	healthy := true
	for _, name := range names {
		if err := h.Stores[name](ctx); err != nil {
			healthy = false
			result[name] = err.Error()
			utils.LogError(middleware.GetRequestID(c), "system", "db_check", "store="+name, err)
			continue
		}
		result[name] = "ok"
	}
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "store check failed", "stores": result})
		return
	}
	ok(c, http.StatusOK, gin.H{"message": fmt.Sprintf("%d store(s) reachable", len(names)), "stores": result})
}

// GET /api/routes
func (h *Handler) Routes(c *gin.Context) {
	h.mu.RLock()
	r := h.router
	h.mu.RUnlock()
	if r == nil {
		RespondError(c, http.StatusServiceUnavailable, "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
