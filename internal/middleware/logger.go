package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, echoed in the response header,
// and writes one access log line when the handler returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(util.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := logutils.Log.WithFields(logutils.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		if userID := c.GetUint(util.UserIDKey); userID != 0 {
			entry = entry.WithField("user", userID)
		}
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case len(c.Errors) > 0:
			entry.Warn(c.Errors.String())
		default:
			entry.Info("request")
		}
	}
}
