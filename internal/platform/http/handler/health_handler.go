// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultPingTimeout bounds the store probe of a health request.
const DefaultPingTimeout = 2 * time.Second

// Store connectivity states reported in the db field.
const (
	DBConnected    = "connected"
	DBDisconnected = "disconnected"
)

// Pinger probes a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Uptime string `json:"uptime"`
}

// HealthHandler reports process liveness, store connectivity and uptime.
type HealthHandler struct {
	store       Pinger
	startedAt   time.Time
	now         func() time.Time
	pingTimeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil store is reported as disconnected.
func NewHealthHandler(store Pinger, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		store:       store,
		startedAt:   startedAt,
		now:         time.Now,
		pingTimeout: DefaultPingTimeout,
	}
}

// Health handles GET, HEAD and OPTIONS on /api/health.
// The process itself is healthy whenever it can answer, so the status code
// does not depend on the store.
func (h *HealthHandler) Health(c *gin.Context) {
	// Health responses must never be cached.
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, HealthResponse{
			Status: "ok",
			DB:     h.dbState(c.Request.Context()),
			Uptime: fmt.Sprintf("%ds", int64(h.now().Sub(h.startedAt).Seconds())),
		})
	}
}

func (h *HealthHandler) dbState(ctx context.Context) string {
	if h.store == nil {
		return DBDisconnected
	}
	ctx, cancel := context.WithTimeout(ctx, h.pingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return DBDisconnected
	}
	return DBConnected
}
