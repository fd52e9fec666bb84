package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"cadportal/internal/pkg/response"
)

// RequestLogger logs one line per request. The level follows the status code:
// INFO below 400, WARN for 4xx, ERROR for 5xx.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_id", c.GetString(ContextUserID)),
			slog.String("request_id", requestID(c)),
		)
	}
}

// ErrorLogger recovers from panics and logs errors attached to the context.
// Panic details go to the log only; the client gets an opaque 500.
func ErrorLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					slog.String("error", fmt.Sprintf("%v", recovered)),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", requestID(c)),
					slog.String("stack", string(debug.Stack())),
				)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				return
			}

			for _, err := range c.Errors {
				logger.Error("request error",
					slog.String("type", fmt.Sprintf("%v", err.Type)),
					slog.String("error", err.Error()),
					slog.Int("status", c.Writer.Status()),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", requestID(c)),
				)
			}
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}
