package handler

import (
	"net/http"
	"time"

	"github.com/erp/pricesync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a backing store is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// Health reports the process is up
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready reports whether the database answers
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeNotReady, "Database unavailable")
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}
