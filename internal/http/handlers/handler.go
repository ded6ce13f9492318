// Package handlers implements the /api endpoints of the parking backend.
package handlers

import (
	"context"
	"sync"

	"spacify/internal/services"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type Handler struct {
	Auth     services.AuthService
	Bookings services.BookingService
	Spots    services.SpotService
	Docs     services.DocsService
	// Stores are checked by /api/db-check, keyed by name.
	Stores map[string]Pinger

	mu     sync.RWMutex
	router *gin.Engine
}

// SetRouter stores the active gin engine for /api/routes.
func (h *Handler) SetRouter(r *gin.Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.router = r
}
