package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"racket-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	ResultCountKey = "resultCount"
	OutcomeKey     = "explanationOutcome"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if n, ok := c.Get(ResultCountKey); ok {
			fields["result_count"] = n
		}
		if outcome, ok := c.Get(OutcomeKey); ok {
			fields["explanation_outcome"] = outcome
		}
		telemetry.Info("request.complete", fields)
	}
}
