package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/internal/database"
	"github.com/pageza/recipenest/backend/internal/testhelpers"
)

type fixedBreaker gobreaker.State

func (b fixedBreaker) State() gobreaker.State { return gobreaker.State(b) }

func healthRouter(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	w := performRequest(healthRouter(NewHealthHandler(db, nil, fixedBreaker(gobreaker.StateClosed), "v1")), http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","version":"v1","checks":{"database":"ok","redis":"disabled","catalog_breaker":"closed"}}`, w.Body.String())
}

func TestHealthCheckDegradedWhenBreakerOpen(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	w := performRequest(healthRouter(NewHealthHandler(db, nil, fixedBreaker(gobreaker.StateOpen), "v1")), http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	require.NoError(t, database.Close(db))

	w := performRequest(healthRouter(NewHealthHandler(db, nil, nil, "v1")), http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	w := performRequest(healthRouter(NewHealthHandler(db, nil, nil, "v1")), http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
