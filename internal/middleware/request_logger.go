package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
)

type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(log *logger.Logger) *RequestLogger {
	return &RequestLogger{log: log.With("middleware", "RequestLogger")}
}

// Log emits one structured line per request. The user id path param goes
// through the logger's hashing redaction like any other user_id field.
func (rl *RequestLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := c.Param("user_id"); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		if c.Writer.Status() >= 500 {
			rl.log.Error("Request failed", fields...)
			return
		}
		rl.log.Info("Request handled", fields...)
	}
}
