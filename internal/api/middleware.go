// internal/api/middleware.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
)

// CronHeader is the trusted-caller marker the scheduler sets. App Engine
// strips it from external requests, so its presence proves the caller.
const CronHeader = "X-Appengine-Cron"

// RequireCronCaller rejects untrusted callers of the scheduled trigger when
// running in production. The rejection happens before any employee data is
// read. Outside production the check is skipped so local runs stay easy.
func RequireCronCaller(production bool, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if production && c.GetHeader(CronHeader) != "true" {
			log.Warn("untrusted scheduled trigger call rejected", map[string]interface{}{
				"remoteAddr": c.ClientIP(),
				"path":       c.Request.URL.Path,
			})
			respondStandardError(c, http.StatusUnauthorized,
				stderrors.NewUnauthorizedTriggerError("missing or invalid cron marker header"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request", map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
	}
}
