package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет access-лог через logrus вместо стандартного логгера gin.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "api")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			entry.WithFields(fields).WithField("errors", c.Errors.String()).Error("request")
			return
		}
		entry.WithFields(fields).Info("request")
	}
}
