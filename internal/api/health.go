package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"

	"github.com/pageza/recipenest/backend/internal/database"
)

// BreakerStater reports the state of the catalog circuit breaker.
type BreakerStater interface {
	State() gobreaker.State
}

type HealthHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	breaker BreakerStater
	version string
}

// NewHealthHandler builds the handler. redis and breaker may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, breaker BreakerStater, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redisClient,
		breaker: breaker,
		version: version,
	}
}

// RegisterRoutes registers /health and /metrics on the engine root.
func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// HealthCheck returns 503 only when the database is unreachable. A missing
// Redis or an open breaker degrades the service without taking it down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := gin.H{}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		checks["database"] = err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	switch {
	case h.redis == nil:
		checks["redis"] = "disabled"
	case h.redis.Ping(ctx).Err() != nil:
		checks["redis"] = "unavailable"
		if code == http.StatusOK {
			status = "degraded"
		}
	default:
		checks["redis"] = "ok"
	}

	if h.breaker != nil {
		state := h.breaker.State()
		checks["catalog_breaker"] = state.String()
		if state != gobreaker.StateClosed && code == http.StatusOK {
			status = "degraded"
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": h.version,
		"checks":  checks,
	})
}
