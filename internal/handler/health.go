package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the readiness report can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Overall and per-service states in the readiness report.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"

	serviceUp       = "up"
	serviceDown     = "down"
	serviceDisabled = "disabled"
)

const pingTimeout = 5 * time.Second

type serviceHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthReport is the readiness payload: the record store decides whether the
// API can serve, the page cache only whether it serves at full speed.
type HealthReport struct {
	Status    string                   `json:"status"`
	Timestamp int64                    `json:"timestamp"`
	Services  map[string]serviceHealth `json:"services"`
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	store Pinger
	cache Pinger // nil when the cache is not configured
}

func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness pings the store and the cache. A failing cache degrades the
// report but keeps 200; a failing store is 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	report := HealthReport{
		Status:    StatusOK,
		Timestamp: time.Now().Unix(),
		Services:  make(map[string]serviceHealth, 2),
	}

	cache := check(ctx, h.cache)
	report.Services["cache"] = cache
	if cache.Status == serviceDown {
		report.Status = StatusDegraded
	}

	store := check(ctx, h.store)
	report.Services["store"] = store
	if store.Status != serviceUp {
		report.Status = StatusDown
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

func check(ctx context.Context, p Pinger) serviceHealth {
	if p == nil {
		return serviceHealth{Status: serviceDisabled}
	}
	if err := p.Ping(ctx); err != nil {
		return serviceHealth{Status: serviceDown, Error: err.Error()}
	}
	return serviceHealth{Status: serviceUp}
}
