package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipenest/backend/internal/logging"
	"github.com/pageza/recipenest/backend/internal/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"

	contextLogger    = "logger"
	contextRequestID = "request_id"
)

// RequestLogger assigns every request an id, attaches a request-scoped
// logger to the context and logs the outcome once the handler returns.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.Set(contextRequestID, requestID)
		c.Set(contextLogger, reqLogger)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)
		metrics.RecordHTTPRequest(c.Request.Method, route, status, latency)

		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = reqLogger.Error()
		case status >= 400:
			evt = reqLogger.Warn()
		default:
			evt = reqLogger.Info()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}

// LoggerFromContext returns the request-scoped logger, or the global one
// when RequestLogger is not installed.
func LoggerFromContext(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(contextLogger); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return &l
		}
	}
	l := logging.Logger()
	return &l
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(contextRequestID)
}
