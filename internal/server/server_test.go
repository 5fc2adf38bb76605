package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipenest/backend/config"
	"github.com/pageza/recipenest/backend/internal/api"
	"github.com/pageza/recipenest/backend/internal/router"
	"github.com/pageza/recipenest/backend/internal/testhelpers"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLite(t)

	r := router.SetupRouter(router.Handlers{
		Health: api.NewHealthHandler(db, nil, nil, "test"),
	}, zerolog.Nop(), nil)

	srv := New(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, r)
	require.NotNil(t, srv)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServerShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, gin.New())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	err := <-errCh
	assert.True(t, errors.Is(err, http.ErrServerClosed))
}
