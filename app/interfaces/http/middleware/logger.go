package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"repairshop.dev/photo-gateway/app/utils/contextkeys"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags each request with an id and logs it once it completes.
// Bodies are not logged: responses carry presigned URLs.
func LoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), contextkeys.RequestId{}, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", strings.Join(c.Errors.Errors(), "; "))
		}
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("")
		case strings.HasPrefix(c.Request.URL.Path, "/health-check"), strings.HasPrefix(c.Request.URL.Path, "/metrics"):
			entry.Debug("")
		default:
			entry.Info("")
		}
	}
}
