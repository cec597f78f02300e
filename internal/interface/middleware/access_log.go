package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one structured log line per request.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond),
			"request_id": c.GetString("request_id"),
			"ip":         c.GetString("real_ip"),
		}
		if actor := ActorFrom(c); actor.UserID != "" {
			fields["user_id"] = actor.UserID
		}
		entry := logger.WithFields(fields)
		if c.Writer.Status() >= 500 {
			entry.Error("request")
		} else {
			entry.Info("request")
		}
	}
}
